package cli

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/vectorcad/pkg/config"
	"github.com/matzehuels/vectorcad/pkg/document"
	"github.com/matzehuels/vectorcad/pkg/events"
	"github.com/matzehuels/vectorcad/pkg/history"
	"github.com/matzehuels/vectorcad/pkg/interaction"
	docio "github.com/matzehuels/vectorcad/pkg/io"
	"github.com/matzehuels/vectorcad/pkg/pick"
	"github.com/matzehuels/vectorcad/pkg/script"
)

// workspace wires one loaded document to its pick index, history and
// interaction session.
type workspace struct {
	doc     *document.Document
	index   *pick.Index
	hist    *history.Manager
	session *interaction.Session
	runner  *script.Runner

	// events collects everything the session emitted.
	events *events.Buffer
	// publisher is nil unless a Redis URL is configured.
	publisher *events.RedisPublisher
}

// openWorkspace loads the document at path and builds a session over it as
// described by cfg.
func openWorkspace(path string, cfg config.Config, logger *log.Logger) (*workspace, error) {
	doc, err := docio.ImportJSON(path)
	if err != nil {
		return nil, err
	}
	return newWorkspace(doc, cfg, logger)
}

func newWorkspace(doc *document.Document, cfg config.Config, logger *log.Logger) (*workspace, error) {
	ws := &workspace{
		doc:    doc,
		index:  pick.New(),
		events: events.NewBuffer(0),
	}
	doc.Reindex(ws.index)
	ws.hist = history.New(doc, history.WithIndex(ws.index), history.WithLogger(componentLogger(logger, "history")))

	sink := events.Fanout{ws.events, events.NewLogSink(componentLogger(logger, "events"), log.DebugLevel)}
	if cfg.Events.RedisURL != "" {
		p, err := events.NewRedisPublisherFromURL(cfg.Events.RedisURL, cfg.PublisherOptions()...)
		if err != nil {
			return nil, err
		}
		ws.publisher = p
		sink = append(sink, p)
	}

	opts := append(cfg.SessionOptions(),
		interaction.WithHistory(ws.hist),
		interaction.WithEvents(sink),
		interaction.WithTextSystem(doc),
		interaction.WithLogger(componentLogger(logger, "session")),
	)
	ws.session = interaction.New(doc, ws.index, opts...)
	if cfg.TransformLog.Enabled {
		ws.session.SetLogEnabled(true, cfg.TransformLog.MaxEntries, cfg.TransformLog.MaxIDs)
	}
	ws.runner = script.NewRunner(ws.session, ws.hist, doc, componentLogger(logger, "script"))
	return ws, nil
}

// close releases the publisher connection.
func (ws *workspace) close() error {
	if ws.publisher == nil {
		return nil
	}
	return ws.publisher.Close()
}
