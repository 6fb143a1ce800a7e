// Package messagelog houses concrete implementations of core.MessageLog. The
// interface itself (and the Message struct) live in the core package to
// centralize domain contracts; keeping only implementations here prevents
// higher level packages (bus, agents, server) from depending on concrete
// storage.
//
// InMemoryLog suits tests and ephemeral demo servers. The sqlite sub-package
// provides a durable single-file backend; add further backends (Postgres,
// object storage, ...) in sub-packages without changing any calling code.
package messagelog
