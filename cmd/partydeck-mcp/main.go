package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	partymcp "github.com/mgeist/partydeck/internal/mcp"
)

func main() {
	content := flag.String("content", "", "path to a content YAML file (default: embedded)")
	flag.Parse()

	partymcp.SetContentFile(*content)

	s := server.NewMCPServer("partydeck", "1.0.0")
	partymcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
