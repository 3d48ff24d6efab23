// Package ui contains the Bubble Tea program that renders the workflow
// dashboard. The Model owns every piece of screen state; nothing else mutates
// it.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function (key presses, window resizes, ticks, worker results).
//   - Key presses go to the handler of the active screen. Overlays (dialogs,
//     the event inspector, detail banners and search prompts) see keys before
//     the screen's own keymap does.
//   - Screen transitions that need remote data call the state types in
//     internal/ui/state with an issue function. Issuing stamps the command with
//     a sequence number through internal/ui/command and queues it for the
//     worker; Update never waits for the worker itself.
//
// Worker results:
//   - waitForResults runs as a tea.Cmd. It blocks on the result queue off the
//     main loop, then drains everything already queued into one resultsMsg.
//   - Each result is applied by internal/data/dispatcher, which rejects stale
//     sequence numbers and results for a workflow that is no longer shown.
//     The handler then re-arms the wait.
//
// Timers:
//   - A 100ms tick advances the spinner, expires status messages and fires the
//     workflow list auto-refresh when it is due.
//
// View is a pure rendering of the current state and performs no I/O.
package ui
