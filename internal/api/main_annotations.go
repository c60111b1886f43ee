// @title           StudyForge API
// @version         1.0
// @description     Flashcard generation service backed by configurable LLM providers.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and your API token. Example: "Bearer sf_xxx"
package api
