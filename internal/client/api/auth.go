package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/client/models"
)

// OTPLength is the number of digits of a one-time code.
const OTPLength = 6

// operation holds the per-endpoint defaults used when the server says nothing.
type operation struct {
	name    string
	path    string
	okMsg   string
	failMsg string
}

var (
	opLogin = operation{
		name: "login", path: "/auth/login",
		okMsg: "Login successful", failMsg: "Login failed. Please check your credentials.",
	}
	opRegister = operation{
		name: "register", path: "/auth/register",
		okMsg: "Registration successful. Check your email for the verification code.", failMsg: "Registration failed. Please try again.",
	}
	opVerifyOTP = operation{
		name: "verify-otp", path: "/auth/verify-otp",
		okMsg: "Email verified successfully", failMsg: "OTP verification failed. Please try again.",
	}
	opResendOTP = operation{
		name: "resend-otp", path: "/auth/resend-otp",
		okMsg: "A new code has been sent to your email", failMsg: "Failed to resend OTP. Please try again.",
	}
)

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

// Login sends POST /auth/login {userName, password}.
func (c *Client) Login(ctx context.Context, userName, password string) Result {
	return c.authCall(ctx, opLogin, models.Credentials{UserName: userName, Password: password})
}

// Register sends POST /auth/register {userName, password, email}. The backend
// mails an OTP as a side effect.
func (c *Client) Register(ctx context.Context, userName, password, email string) Result {
	return c.authCall(ctx, opRegister, models.Credentials{UserName: userName, Password: password, Email: email})
}

// VerifyOTP sends POST /auth/verify-otp {email, otp}. Codes that are not
// exactly six digits are refused locally.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) Result {
	if !IsCompleteOTP(code) {
		return failure(KindValidation, 0, "Please enter a 6-digit OTP",
			fmt.Errorf("%w: otp must be %d digits", ErrInvalidArgument, OTPLength))
	}
	return c.authCall(ctx, opVerifyOTP, verifyOTPRequest{Email: email, OTP: code})
}

// ResendOTP sends POST /auth/resend-otp {email}. Rate limiting is the
// server's business.
func (c *Client) ResendOTP(ctx context.Context, email string) Result {
	return c.authCall(ctx, opResendOTP, resendOTPRequest{Email: email})
}

// GoogleAuthURL is where the browser starts the Google sign-in round trip.
func (c *Client) GoogleAuthURL() string {
	return c.baseURL + "/auth/google"
}

// IsCompleteOTP reports whether code is exactly OTPLength ASCII digits.
func IsCompleteOTP(code string) bool {
	if len(code) != OTPLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// authCall performs op and folds every outcome into a Result.
func (c *Client) authCall(ctx context.Context, op operation, body any) Result {
	resp, err := c.do(ctx, http.MethodPost, op.path, nil, body)
	if err != nil {
		c.log.Warn(ctx, "auth call failed", "op", op.name, "error", err)
		return failure(KindTransport, 0, op.failMsg, err)
	}

	var env envelope
	var decodeErr error
	if len(resp.body) > 0 {
		decodeErr = json.Unmarshal(resp.body, &env)
	}

	if !resp.ok() {
		cause := fmt.Errorf("%s: status %d", op.name, resp.status)
		if msg := env.explanation(); decodeErr == nil && msg != "" {
			return failure(KindApplication, resp.status, msg, cause)
		}
		return failure(KindTransport, resp.status, op.failMsg, cause)
	}

	if decodeErr != nil {
		return failure(KindTransport, resp.status, op.failMsg,
			fmt.Errorf("%w: %s: %v", ErrInvalidResponse, op.name, decodeErr))
	}

	if env.Success != nil && !*env.Success {
		msg := env.explanation()
		if msg == "" {
			msg = op.failMsg
		}
		return failure(KindApplication, resp.status, msg, errors.New(op.name+": rejected by server"))
	}

	msg := env.explanation()
	if msg == "" {
		msg = op.okMsg
	}
	return Result{Success: true, Message: msg, Data: env.payload()}
}
