package main

// General API documentation for swaggo. Regenerate internal/docs with
// `swag init -g cmd/llmchat/docs.go -d ./,./internal/httpapi -o internal/docs`.
//
// @title           llmchat API
// @version         1.0
// @description     HTTP API for single-model local text generation.
//
// @contact.name   llmchat maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
