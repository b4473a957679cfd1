// Package flow holds the controllers behind the sign-in screens: OTP
// verification with a resend cooldown, the login/register form and the
// OAuth redirect handler.
//
// Controllers talk to the backend through AuthAPI, keep the session through
// session.Store and move the user with nav.Navigator. They are safe for
// concurrent use; observers are called outside the controller's lock, so an
// observer may read the controller again but must be safe for concurrent
// calls itself (cooldown ticks arrive from a separate goroutine).
package flow
