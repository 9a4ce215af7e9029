// Package doctor diagnoses a wsmux setup without changing anything.
//
// It checks:
//
//   - the tmux binary and its version
//   - that the configuration file parses and validates
//   - whether the base session is running
//   - duplicate workspace tags, left behind when two terminals raced on
//     the same workspace without the lock
//   - how many client sessions exist (informational, wsmux never removes them)
//   - whether the shell rc block is installed
//
// # Usage
//
//	report := doctor.Run(ctx, doctor.Input{...})
//	doctor.Print(os.Stdout, report)
//
// Each [Result] carries a [Status]; [Report.Failed] counts the failures.
package doctor
