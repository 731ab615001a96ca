package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wolfman30/clinic-dashboard/internal/dashboard"
	"github.com/wolfman30/clinic-dashboard/internal/modal"
	"github.com/wolfman30/clinic-dashboard/internal/search"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/internal/ui"
)

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "clinic-dashboard",
		Short:         "Clinic dashboard for admins, doctors and patients",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context(), cmd, stdin, stderr)
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().String("api", "", "Backend base URL (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().Bool("yes", false, "Answer yes to confirmations")

	rootCmd.AddCommand(loginCmd(a))
	rootCmd.AddCommand(signupCmd(a))
	rootCmd.AddCommand(logoutCmd(a))
	rootCmd.AddCommand(whoamiCmd(a))
	rootCmd.AddCommand(doctorsCmd(a))
	rootCmd.AddCommand(appointmentsCmd(a))
	rootCmd.AddCommand(reportsCmd(a))
	return rootCmd
}

func loginCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "login <admin|doctor|patient>",
		Short:     "Log in and remember the session",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"admin", "doctor", "patient"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var form modal.Form
			switch args[0] {
			case "admin":
				form = modal.AdminLogin{}
			case "doctor":
				form = modal.DoctorLogin{}
			case "patient":
				form = modal.PatientLogin{}
			default:
				return fmt.Errorf("unknown role %q", args[0])
			}
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			forms := a.forms(nil)
			forms.Open(form)
			return outcome(forms.Submit(cmd.Context(), modal.Input{Username: username, Email: email, Password: password}))
		},
	}
	cmd.Flags().String("username", "", "Admin username")
	cmd.Flags().String("email", "", "Doctor or patient email")
	cmd.Flags().String("password", "", "Password")
	return cmd
}

func signupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a patient account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := modal.Input{}
			in.Name, _ = cmd.Flags().GetString("name")
			in.Email, _ = cmd.Flags().GetString("email")
			in.Password, _ = cmd.Flags().GetString("password")
			in.Phone, _ = cmd.Flags().GetString("phone")
			in.Address, _ = cmd.Flags().GetString("address")

			forms := a.forms(nil)
			forms.Open(modal.PatientSignup{})
			return outcome(forms.Submit(cmd.Context(), in))
		},
	}
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("email", "", "Email")
	cmd.Flags().String("password", "", "Password")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("address", "", "Postal address")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dashboard.Logout(cmd.Context(), a.sess, a.host)
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current role and its menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, ok := dashboard.Guard(cmd.Context(), a.sess, a.host)
			if !ok {
				return errReported
			}
			fmt.Fprintf(a.out, "role: %s\n", snap.Role)
			labels := make([]string, 0, 4)
			for _, item := range dashboard.Header(snap.Role) {
				labels = append(labels, item.Label)
			}
			if len(labels) > 0 {
				fmt.Fprintf(a.out, "menu: %s\n", strings.Join(labels, " | "))
			}
			return nil
		},
	}
}

func doctorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Browse and manage doctors",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List doctors, optionally filtered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			region := ui.NewRegion("doctors")
			var ctrl *search.Controller
			if a.sess.Role() == session.RoleAdmin {
				view, _ := a.admin(region, ui.NewRegion("reports"))
				if !view.Render(ctx) {
					return errReported
				}
				ctrl = view.Search()
			} else {
				view, _, err := a.patient(ctx, region)
				if err != nil {
					return err
				}
				if !view.Render(ctx) {
					return errReported
				}
				ctrl = view.Search()
			}
			name, _ := cmd.Flags().GetString("name")
			slot, _ := cmd.Flags().GetString("time")
			specialty, _ := cmd.Flags().GetString("specialty")
			applyFilters(ctx, ctrl, name, slot, specialty)
			return a.print(region)
		},
	}
	listCmd.Flags().String("name", "", "Doctor name contains")
	listCmd.Flags().String("time", "", "AM, PM or a slot such as 09:00-10:00")
	listCmd.Flags().String("specialty", "", "Specialty")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a doctor (admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			region := ui.NewRegion("doctors")
			view, forms := a.admin(region, ui.NewRegion("reports"))
			view.AddDoctor()
			in := doctorFlags(cmd, modal.Input{})
			if err := outcome(forms.Submit(cmd.Context(), in)); err != nil {
				return err
			}
			return a.print(region)
		},
	}
	addDoctorFlags(addCmd)
	addCmd.Flags().String("password", "", "Login password")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a listed doctor (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid doctor id %q", args[0])
			}
			ctx := cmd.Context()
			region := ui.NewRegion("doctors")
			view, forms := a.admin(region, ui.NewRegion("reports"))
			if !view.Render(ctx) {
				return errReported
			}
			if !view.EditDoctor(id) {
				return fmt.Errorf("doctor %d is not listed", id)
			}
			form, _ := forms.Current()
			if err := outcome(forms.Submit(ctx, doctorFlags(cmd, modal.Prefill(form)))); err != nil {
				return err
			}
			return a.print(region)
		},
	}
	addDoctorFlags(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a doctor (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid doctor id %q", args[0])
			}
			ctx := cmd.Context()
			region := ui.NewRegion("doctors")
			view, _ := a.admin(region, ui.NewRegion("reports"))
			if !view.Render(ctx) {
				return errReported
			}
			if res := view.DeleteDoctor(ctx, id); !res.Success {
				return errReported
			}
			return a.print(region)
		},
	}

	bookCmd := &cobra.Command{
		Use:   "book <id>",
		Short: "Book an appointment with a doctor (patient)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid doctor id %q", args[0])
			}
			ctx := cmd.Context()
			view, forms, err := a.patient(ctx, ui.NewRegion("doctors"))
			if err != nil {
				return err
			}
			if !view.Render(ctx) || !view.BookNow(ctx, id) {
				return errReported
			}
			date, _ := cmd.Flags().GetString("date")
			slot, _ := cmd.Flags().GetString("slot")
			return outcome(forms.Submit(ctx, modal.Input{Date: date, Slot: slot}))
		},
	}
	bookCmd.Flags().String("date", "", "Date (YYYY-MM-DD)")
	bookCmd.Flags().String("slot", "", "Slot such as 09:00-10:00")

	cmd.AddCommand(listCmd, addCmd, updateCmd, deleteCmd, bookCmd)
	return cmd
}

func addDoctorFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Doctor name")
	cmd.Flags().String("specialty", "", "Specialty, for example ENT")
	cmd.Flags().String("email", "", "Email")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().StringSlice("times", nil, "Available slots, comma separated")
}

// doctorFlags overlays the flags that were given onto base.
func doctorFlags(cmd *cobra.Command, base modal.Input) modal.Input {
	set := func(name string, dst *string) {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	set("name", &base.Name)
	set("specialty", &base.Specialty)
	set("email", &base.Email)
	set("phone", &base.Phone)
	if cmd.Flags().Lookup("password") != nil {
		set("password", &base.Password)
	}
	if cmd.Flags().Changed("times") {
		base.AvailableTimes, _ = cmd.Flags().GetStringSlice("times")
	}
	return base
}

// applyFilters drives the filter controls the way a user would and waits
// for the last query to land.
func applyFilters(ctx context.Context, ctrl *search.Controller, name, slot, specialty string) {
	defer ctrl.Stop()
	if slot != "" {
		ctrl.SetTime(ctx, slot)
	}
	if specialty != "" {
		ctrl.SetSpecialty(ctx, specialty)
	}
	if name != "" {
		ctrl.SetName(ctx, name)
		ctrl.Flush(ctx)
	}
	ctrl.Wait()
}

func appointmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Show the doctor's appointments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			region := ui.NewRegion("appointments")
			console := dashboard.NewConsole(a.gw, a.sess, a.host, region, a.opts)
			defer console.Stop()

			if name, _ := cmd.Flags().GetString("patient"); name != "" {
				if !console.SetPatientName(ctx, name) {
					return errReported
				}
			}
			date, _ := cmd.Flags().GetString("date")
			today, _ := cmd.Flags().GetBool("today")
			var ok bool
			switch {
			case today:
				ok = console.Today(ctx)
			case date != "":
				ok = console.SetDate(ctx, date)
			default:
				ok = console.Render(ctx)
			}
			if !ok {
				return errReported
			}
			return a.print(region)
		},
	}
	cmd.Flags().String("date", "", "Show one day (YYYY-MM-DD) instead of upcoming")
	cmd.Flags().Bool("today", false, "Show today's appointments")
	cmd.Flags().String("patient", "", "Patient name contains")
	return cmd
}

func reportsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Admin reports",
	}
	run := func(fn func(ctx context.Context, view *dashboard.Admin, args []string) bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			region := ui.NewRegion("reports")
			view, _ := a.admin(ui.NewRegion("doctors"), region)
			if !fn(cmd.Context(), view, args) {
				return errReported
			}
			return a.print(region)
		}
	}

	dailyCmd := &cobra.Command{
		Use:   "daily <date>",
		Short: "Appointments on a day across doctors",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, view *dashboard.Admin, args []string) bool {
			return view.DailyReport(ctx, args[0])
		}),
	}
	monthCmd := &cobra.Command{
		Use:   "month <month> <year>",
		Short: "Top doctors for a month",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, view *dashboard.Admin, args []string) bool {
			return view.TopDoctorByMonth(ctx, args[0], args[1])
		}),
	}
	yearCmd := &cobra.Command{
		Use:   "year <year>",
		Short: "Top doctors for a year",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, view *dashboard.Admin, args []string) bool {
			return view.TopDoctorByYear(ctx, args[0])
		}),
	}
	cmd.AddCommand(dailyCmd, monthCmd, yearCmd)
	return cmd
}
