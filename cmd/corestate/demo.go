package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/corestate/corestate/pkg/signup"
	"github.com/corestate/corestate/pkg/store"
)

func demoCmd() *cobra.Command {
	var quiet time.Duration
	var verbose bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted sign-up form walkthrough",
		Long: `Drives the reference sign-up form through a typing session and prints
each state transition, including the debounced validation passes that
fire once a field stops changing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(quiet, verbose)
		},
	}

	cmd.Flags().DurationVar(&quiet, "quiet", 400*time.Millisecond, "Validation quiet period")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log store internals")

	return cmd
}

func runDemo(quiet time.Duration, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	form := signup.NewWithQuiet(quiet,
		store.WithName("signup"),
		store.WithLogger(logger),
	)
	defer form.Close()

	badge := signup.NewBadge(form,
		store.WithName("badge"),
		store.WithLogger(logger),
	)
	defer badge.Close()

	username := signup.UsernameBinding(form)
	password := signup.PasswordBinding(form)
	again := signup.PasswordAgainBinding(form)

	type step struct {
		label string
		run   func()
	}

	typeInto := func(b store.Binding[string], text string) func() {
		return func() {
			for i := range text {
				b.Set(text[:i+1])
				time.Sleep(quiet / 8)
			}
		}
	}

	steps := []step{
		{`typing username "ab"`, typeInto(username, "ab")},
		{"waiting for validation", nil},
		{`typing username "abc"`, typeInto(username, "abc")},
		{"waiting for validation", nil},
		{`typing password "pass"`, typeInto(password, "pass")},
		{`typing confirmation "pass"`, typeInto(again, "pass")},
		{"waiting for validation", nil},
		{`typing password "passw"`, typeInto(password, "passw")},
		{`typing confirmation "passw"`, typeInto(again, "passw")},
		{"waiting for validation", nil},
		{"submitting", func() { form.Send(store.Run[signup.Mutation, signup.Request](signup.Submit{})) }},
	}

	for _, s := range steps {
		if s.run != nil {
			s.run()
		} else {
			time.Sleep(quiet + quiet/2)
		}
		if err := form.Flush(); err != nil {
			return err
		}
		printState(s.label, form.State(), badge.State())
	}

	// The submit request resolves asynchronously; give its follow-up
	// action a moment to land.
	time.Sleep(50 * time.Millisecond)
	if err := form.Flush(); err != nil {
		return err
	}
	printState("after submit", form.State(), badge.State())

	return nil
}

func printState(label string, s signup.State, b signup.BadgeState) {
	fmt.Printf("%-32s username=%q password=%q again=%q\n", label, s.Username, s.Password, s.PasswordAgain)
	if s.UsernameMessage != "" {
		fmt.Printf("%32s   username message: %s\n", "", s.UsernameMessage)
	}
	if s.PasswordMessage != "" {
		fmt.Printf("%32s   password message: %s\n", "", s.PasswordMessage)
	}
	fmt.Printf("%32s   canSignUp=%v showSignUp=%v badgeReady=%v\n", "", s.CanSignUp, s.ShowSignUp, b.Ready)
}
