// Package state provides a lightweight FSM/session manager for Telegram bots.
// It is intentionally domain-agnostic so conversation flows can layer their
// own step semantics on top.
package state
