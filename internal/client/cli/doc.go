// Package cli provides the interactive storefront command-line client.
//
// It wires configuration, the local session database, the backend API client
// and the sign-in flow controllers into a REPL. App is the router: flow
// controllers navigate through it, and the current route decides the prompt,
// the help text and which controller the commands drive.
//
// Routes
//
//	/auth          login / register / google
//	/verify-otp    verify <code>, resend (60s cooldown)
//	/              catalogue and assistant
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
