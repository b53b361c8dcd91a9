//go:build js && wasm

// Command wasm is the in-browser page engine. Build it with
//
//	GOOS=js GOARCH=wasm go build -o static/folio.wasm ./wasm
package main

import (
	"go.uber.org/zap"

	"github.com/circuitfolio/folio/internal/catalog"
	"github.com/circuitfolio/folio/internal/dom"
	"github.com/circuitfolio/folio/internal/logging"
	"github.com/circuitfolio/folio/internal/site"
)

func main() {
	log, err := logging.New("", logging.EncodingConsole)
	if err != nil {
		log = zap.NewNop()
	}

	store, err := catalog.LoadEmbedded()
	if err != nil {
		log.Error("catalog failed to load", zap.Error(err))
		return
	}

	doc := dom.NewBrowser(log)

	page := site.Mount(doc, store, site.WithLogger(log))
	for _, err := range page.Missing {
		log.Debug("feature unavailable", zap.Error(err))
	}

	// Listeners live as long as the page.
	select {}
}
