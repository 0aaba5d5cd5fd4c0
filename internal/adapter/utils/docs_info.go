// @title           Study API
// @version         1.0
// @description     Turns an uploaded PDF into a summary, a multiple choice quiz and a story game. Workflows run asynchronously; poll the workflow or job status.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package utils

//run redis
//docker run -p 6379:6379 -d redis

//seed the fixed image and story tables
//go run ./cmd/studytool seed --file tables.json

//swagger init
//swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
