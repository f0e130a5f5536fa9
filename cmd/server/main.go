package main

import (
	_ "github.com/intlakaa/docs" // swagger docs
)

// @title Intlakaa API
// @version 1.0
// @description Lead capture, admin accounts and SEO settings for the Intlakaa marketing site.

// @contact.name Intlakaa
// @contact.email hazem@intlakaa.com

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your JWT token with the `Bearer ` prefix, e.g. "Bearer eyJhbGci..."

func main() {
	Execute()
}
