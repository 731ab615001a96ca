package gateway

import (
	"context"
	"encoding/json"
	"net/http"
)

// AdminLogin exchanges admin credentials for a token.
func (c *Client) AdminLogin(ctx context.Context, creds AdminCredentials) Result {
	return c.login(ctx, "admin_login", "/admin", creds)
}

// DoctorLogin exchanges doctor credentials for a token.
func (c *Client) DoctorLogin(ctx context.Context, creds Credentials) Result {
	return c.login(ctx, "doctor_login", "/doctor/login", creds)
}

// PatientLogin exchanges patient credentials for a token.
func (c *Client) PatientLogin(ctx context.Context, creds Credentials) Result {
	return c.login(ctx, "patient_login", "/patient/login", creds)
}

func (c *Client) login(ctx context.Context, op, path string, body any) Result {
	resp, err := c.do(ctx, op, http.MethodPost, path, "", body)
	if err != nil {
		return failure(MsgNetwork)
	}
	if !resp.ok() {
		msg := resp.message()
		if msg == "" {
			msg = MsgInvalidCredentials
		}
		return Result{Status: resp.status, Message: msg}
	}
	var payload struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil || payload.Token == "" {
		c.logger.Warn("login response without token", "op", op, "status", resp.status)
		return Result{Status: resp.status, Message: MsgGeneric}
	}
	return Result{Success: true, Status: resp.status, Message: payload.Message, Token: payload.Token}
}

// PatientSignup registers a new patient.
func (c *Client) PatientSignup(ctx context.Context, req SignupRequest) Result {
	return c.mutate(ctx, "patient_signup", http.MethodPost, "/patient", "", req)
}

// PatientProfile returns the patient owning token, confirming the identity
// server-side. It returns nil and an error when the profile cannot be read.
func (c *Client) PatientProfile(ctx context.Context, token string) (*Patient, error) {
	var env struct {
		Patient *Patient `json:"patient"`
	}
	if err := c.read(ctx, "patient_profile", "/patient/"+seg(token), token, &env); err != nil {
		return nil, err
	}
	if env.Patient == nil {
		return nil, &APIError{Status: http.StatusNotFound, Message: "patient profile missing"}
	}
	return env.Patient, nil
}
