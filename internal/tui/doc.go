// Package tui is the live office dashboard.
//
// The dashboard owns the office while it runs: every office call happens
// inside Update, so the single-threaded office needs no locking. A timer
// advances the simulation at the configured tick rate and every typed rune
// is fed to the cheat buffer, which is why only Esc and Ctrl+C quit.
//
//	app := tui.New(off, tui.WithTickRate(cfg.Office.TickRate))
//	defer app.Close()
//	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
package tui
