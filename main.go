package main

import (
	"os"

	"investmanager.com/cli"
)

//	@title			InvestManager
//	@version		1.0
//	@description	Multi-tenant investment account ledger API

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Enter the token as: "Bearer eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
