package depot

import "github.com/rs/zerolog"

// Config holds global configuration for every World
var Config config = config{
	logger: zerolog.Nop(),
}

type config struct {
	logger      zerolog.Logger
	tableEvents TableEvents
}

// TableEvents are callbacks fired by structural changes. Nil callbacks are skipped.
type TableEvents struct {
	OnTableCreated   func(*Table)
	OnEntityMigrated func(e Entity, from, to Archetype)
}

// SetLogger replaces the logger used by worlds. The default discards everything.
func (c *config) SetLogger(l zerolog.Logger) {
	c.logger = l
}

// SetTableEvents configures the table event callbacks
func (c *config) SetTableEvents(te TableEvents) {
	c.tableEvents = te
}

func (c *config) log() *Logger {
	return &Logger{&c.logger}
}
