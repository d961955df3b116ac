// @title                       Storefront API
// @version                     1.0
// @description                 Catalog, orders, customers and branding for the storefront.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import "github.com/Sowndhar-gif/halleyx/cmd/storefront/commands"

func main() {
	commands.Execute()
}
