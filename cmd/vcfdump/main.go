// cmd/vcfdump/main.go
package main

import (
	"vcfdump/internal/app"
	"vcfdump/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
