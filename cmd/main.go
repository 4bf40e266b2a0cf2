// cmd/main.go
package main

import (
	"med-transcribe-api/app"
)

// @title           Med-Transcribe API
// @version         1.0
// @description     Authentication and account-protection backend for the medical transcription service.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
