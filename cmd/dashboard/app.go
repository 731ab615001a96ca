package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/wolfman30/clinic-dashboard/internal/app/bootstrap"
	appconfig "github.com/wolfman30/clinic-dashboard/internal/config"
	"github.com/wolfman30/clinic-dashboard/internal/dashboard"
	"github.com/wolfman30/clinic-dashboard/internal/gateway"
	"github.com/wolfman30/clinic-dashboard/internal/modal"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// errReported marks failures the host has already shown to the user.
var errReported = errors.New("reported")

// terminalHost shows notices on the terminal and asks confirmations on
// stdin unless assumeYes is set.
type terminalHost struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func (h *terminalHost) Alert(msg string) {
	fmt.Fprintf(h.out, "! %s\n", msg)
}

func (h *terminalHost) Confirm(msg string) bool {
	if h.assumeYes {
		fmt.Fprintf(h.out, "? %s yes\n", msg)
		return true
	}
	fmt.Fprintf(h.out, "? %s [y/N]: ", msg)
	line, _ := h.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (h *terminalHost) Navigate(path string) {
	fmt.Fprintf(h.out, "-> %s\n", path)
}

// app holds what every command needs. It is filled in by the root
// command's pre-run hook.
type app struct {
	cfg    *appconfig.Config
	logger *logging.Logger
	out    io.Writer
	host   ui.Host
	sess   *session.Session
	gw     *gateway.Client
	opts   dashboard.Options
}

func (a *app) init(ctx context.Context, cmd *cobra.Command, in io.Reader, stderr io.Writer) error {
	_ = godotenv.Load()

	a.cfg = appconfig.Load()
	if api, _ := cmd.Flags().GetString("api"); api != "" {
		a.cfg.APIBaseURL = strings.TrimRight(api, "/")
	}
	a.logger = logging.NewText(stderr, a.cfg.LogLevel)
	a.out = cmd.OutOrStdout()
	assumeYes, _ := cmd.Flags().GetBool("yes")
	a.host = &terminalHost{in: bufio.NewReader(in), out: a.out, assumeYes: assumeYes}

	store, err := bootstrap.BuildSessionStore(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	a.sess, err = session.New(ctx, store, session.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	gw, m, err := bootstrap.BuildGateway(a.cfg, a.logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	a.gw = gw
	a.opts = dashboard.Options{Logger: a.logger, Metrics: m, Debounce: a.cfg.SearchDebounce}
	return nil
}

// forms builds the overlay workflow. refresh may be nil.
func (a *app) forms(refresh func(context.Context)) *modal.Workflow {
	opts := []modal.Option{modal.WithLogger(a.logger)}
	if refresh != nil {
		opts = append(opts, modal.WithRefresh(refresh))
	}
	return modal.New(a.gw, a.sess, a.host, opts...)
}

// admin builds the admin dashboard whose forms reload its listing.
func (a *app) admin(doctors, reports *ui.Region) (*dashboard.Admin, *modal.Workflow) {
	var view *dashboard.Admin
	forms := a.forms(func(ctx context.Context) { view.Reload(ctx) })
	view = dashboard.NewAdmin(a.gw, a.sess, a.host, forms, doctors, reports, a.opts)
	return view, forms
}

// patient builds the public doctor listing. A visitor without a role is
// treated as an anonymous patient, as the public page does.
func (a *app) patient(ctx context.Context, doctors *ui.Region) (*dashboard.Patient, *modal.Workflow, error) {
	if a.sess.Role() == session.RoleAnonymous {
		if err := a.sess.SetRole(ctx, session.RolePatient); err != nil {
			return nil, nil, err
		}
	}
	forms := a.forms(nil)
	return dashboard.NewPatient(a.gw, a.sess, a.host, forms, doctors, a.opts), forms, nil
}

func (a *app) print(region *ui.Region) error {
	return ui.Fprint(a.out, region.Nodes())
}

func outcome(out modal.Outcome) error {
	if out.Success {
		return nil
	}
	return errReported
}
