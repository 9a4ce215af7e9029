// Package prompt holds the interactive questions asked by install and
// uninstall. Prompts render on stderr so stdout stays clean for data.
//
//   - [ConfirmEdit] previews a change to an rc file and asks before it is made
//   - [PickShell] asks which shell to configure when $SHELL is no help
package prompt
