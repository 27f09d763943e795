package http_test

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	httpserver "github.com/fyrsmithlabs/persona-mcp/internal/http"
	"github.com/fyrsmithlabs/persona-mcp/internal/secrets"
)

// ExampleServer demonstrates how to create and start the HTTP server.
func ExampleServer() {
	scrubber, err := secrets.New(nil)
	if err != nil {
		panic(err)
	}

	logger := zap.NewNop()

	server, err := httpserver.NewServer(scrubber, logger, &httpserver.Config{
		Host:      "localhost",
		Port:      0,
		ToolCount: func() int { return 1 },
	})
	if err != nil {
		panic(err)
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Debug("server stopped", zap.Error(err))
		}
	}()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	fmt.Println("Server started and stopped successfully")
	// Output: Server started and stopped successfully
}
