// Package bcikit provides a high-level façade over the stimulus-presentation
// session core (scheduler, registry, stimulus engine, selection and training
// orchestration). Most applications interact with this package by:
//  1. Creating a Session via New() with their marker/response transports and
//     an item source (see transport/inmem and transport/ws for transports)
//  2. Driving it from the host's frame loop via Advance()
//  3. Starting stimulus runs or training sessions and reacting to selections
//
// The façade delegates to protocol.Session while keeping setup concise. The
// in-memory transports are safe for local development and testing; production
// deployments typically supply websocket transports and a structured logger.
package bcikit

import (
	"github.com/hupe1980/bcikit/config"
	"github.com/hupe1980/bcikit/core"
	"github.com/hupe1980/bcikit/protocol"
	"github.com/hupe1980/bcikit/session"
)

// Session is the high-level session façade; see protocol.Session.
type Session = protocol.Session

// Options configures the Session; see protocol.Options.
type Options = protocol.Options

// Config holds the recognized stimulus-session options; see config.Config.
type Config = config.Config

// Training protocols accepted by Session.StartTraining.
const (
	TrainingNone      = session.TrainingNone
	TrainingAutomated = session.TrainingAutomated
	TrainingIterative = session.TrainingIterative
	TrainingUser      = session.TrainingUser
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config { return config.Default() }

// New creates a Session wired against the given transports and item source.
func New(
	cfg Config,
	markers core.MarkerChannel,
	responses core.ResponseChannel,
	source core.ItemSource,
	optFns ...func(o *Options),
) *Session {
	return protocol.New(cfg, markers, responses, source, optFns...)
}
