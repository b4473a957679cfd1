package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/nav"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	currentRoute() string
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Verify(ctx context.Context, code string) error
	Resend(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Products(ctx context.Context, search string) error
	Category(ctx context.Context, name string) error
	Product(ctx context.Context, id string) error
	Ask(ctx context.Context, prompt string) error
	Google(ctx context.Context) error
	Callback(ctx context.Context, raw string) error
}

var _ execIface = (*App)(nil)

// runREPL reads commands from in until EOF, "exit" or "quit".
//
// The first word selects the command, the rest of the line is its argument:
//
//	help                   commands available on the current route
//	login | register       credential forms (auth route)
//	google                 Google sign-in via the callback listener
//	callback <url>         resolve a pasted OAuth redirect
//	verify [code]          submit the emailed code (verify-otp route)
//	resend                 request a new code once the cooldown is over
//	products [search]      list or search the catalogue
//	category <name>        list one category
//	product <id>           show one product
//	ask <question>         ask the shopping assistant
//	whoami                 show the signed-in user
//	logout                 sign out
//	exit | quit            leave the program
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("store %s > ", statusFn()))
		line, err := readLine(in)
		if err != nil {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		if cmd == "" {
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText(a.currentRoute(), a.isLoggedIn(ctx)))

		case "login":
			cmdErr = a.Login(ctx)

		case "register":
			cmdErr = a.Register(ctx)

		case "google":
			cmdErr = a.Google(ctx)

		case "callback":
			cmdErr = a.Callback(ctx, arg)

		case "verify":
			cmdErr = a.Verify(ctx, arg)

		case "resend":
			cmdErr = a.Resend(ctx)

		case "products", "p":
			cmdErr = a.Products(ctx, arg)

		case "category":
			cmdErr = a.Category(ctx, arg)

		case "product":
			cmdErr = a.Product(ctx, arg)

		case "ask":
			cmdErr = a.Ask(ctx, arg)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}

func helpText(route string, loggedIn bool) string {
	switch {
	case route == nav.RouteVerifyOTP:
		return "Available commands: verify [code], resend, login, register, exit"
	case loggedIn:
		return "Available commands: products [search], category <name>, product <id>, ask <question>, whoami, logout, exit"
	default:
		return "Available commands: login, register, google, callback <url>, products, exit"
	}
}
