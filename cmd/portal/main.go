package main

import "github.com/senado-bo/portal-api/cmd/portal/cmd"

func main() {
	cmd.Execute()
}
