package summary

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nickgulson11/nickPersonalSite/formatter"
	"github.com/nickgulson11/nickPersonalSite/model"
)

// Response is a transport-neutral HTTP response for the bus-times endpoint
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

func corsHeaders(methods string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": methods,
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

// BusTimes answers a request to the bus-times endpoint. GET reports on the
// routes named by route; OPTIONS answers a CORS preflight.
func (s *Service) BusTimes(ctx context.Context, method string, route string) Response {
	s.Logger.Debugf("BusTimes %s route=%s", method, route)

	switch method {
	case http.MethodOptions:
		return Response{
			StatusCode: http.StatusOK,
			Headers:    corsHeaders("GET, OPTIONS"),
		}
	case http.MethodGet, "":
	default:
		headers := corsHeaders("GET, OPTIONS")
		headers["Allow"] = "GET, OPTIONS"
		return s.errorResponse(http.StatusMethodNotAllowed, "Method not allowed: "+method, headers)
	}

	summaries, err := s.SummarizeAll(ctx, route)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if IsInvalidRoute(err) {
			statusCode = http.StatusBadRequest
		}
		s.Logger.Printf("bus times for route `%s`: %s", route, err)
		return s.errorResponse(statusCode, err.Error(), corsHeaders("GET"))
	}

	body, err := json.Marshal(summaries)
	if err != nil {
		s.Logger.Printf("cannot marshal bus times: %s", err)
		return s.errorResponse(http.StatusInternalServerError, err.Error(), corsHeaders("GET"))
	}

	headers := corsHeaders("GET")
	headers["Content-Type"] = "application/json"

	return Response{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       string(body),
	}
}

func (s *Service) errorResponse(statusCode int, message string, headers map[string]string) Response {
	body, _ := json.Marshal(model.ErrorResponse{
		Error:     message,
		Timestamp: formatter.ShortTimestamp(s.now()),
	})

	headers["Content-Type"] = "application/json"

	return Response{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}
}
