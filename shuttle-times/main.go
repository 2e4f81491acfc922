package main

import "github.com/nickgulson11/nickPersonalSite/cmd"

func main() {
	cmd.Execute()
}
