package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           energyd API
// @version         1.0
// @description     Predicts annual site energy use and greenhouse gas emissions for non-residential buildings.
//
// @contact.name   energyd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
