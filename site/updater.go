package site

import (
	"context"

	"github.com/nickgulson11/nickPersonalSite/config"
	"github.com/nickgulson11/nickPersonalSite/dlog"
	"github.com/nickgulson11/nickPersonalSite/model"
	"github.com/pkg/errors"
)

type Summarizer interface {
	SummarizeAll(ctx context.Context, selector string) (model.Summaries, error)
}

// Updater rewrites the generated regions of the page held in Store
type Updater struct {
	Logger     *dlog.Logger
	Summarizer Summarizer
	Store      Store
}

// Update summarises every route and writes them and the time of the update
// into the page. Routes the page has no region for are skipped. The
// summaries written are returned.
func (u *Updater) Update(ctx context.Context) (model.Summaries, error) {
	u.Logger.Debug("Update")

	page, err := u.Store.Read(ctx)
	if err != nil {
		return model.Summaries{}, err
	}

	summaries, err := u.Summarizer.SummarizeAll(ctx, config.Both)
	if err != nil {
		return model.Summaries{}, errors.Wrap(err, "cannot summarise routes")
	}

	updated := string(page)

	for route, summary := range summaries.Routes {
		var ok bool
		updated, ok = ReplaceRegion(updated, RouteRegion(route), "\n"+RenderRoute(route, summary)+"\n")
		if !ok {
			u.Logger.Printf("page has no %s region", RouteRegion(route))
		}
	}

	var ok bool
	updated, ok = ReplaceRegion(updated, TimestampRegion, summaries.Timestamp)
	if !ok {
		u.Logger.Printf("page has no %s region", TimestampRegion)
	}

	if err := u.Store.Write(ctx, []byte(updated)); err != nil {
		return model.Summaries{}, err
	}

	u.Logger.Printf("updated %d route(s) at %s", len(summaries.Routes), summaries.Timestamp)

	return summaries, nil
}
