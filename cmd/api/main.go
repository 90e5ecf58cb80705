package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/Flarenzy/simple-auth-api/docs"
	"github.com/Flarenzy/simple-auth-api/internal/command"
)

//	@title			Simple Auth API
//	@version		1.0
//	@description	User registration, login and bearer-token protected profile.

//	@host		localhost:4040
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.

func main() { os.Exit(run()) }

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.RootCommand().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
