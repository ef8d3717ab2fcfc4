package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/hirechat/internal/types"
)

var (
	loginEmail    string
	loginPassword string

	registerName     string
	registerEmail    string
	registerPassword string
	registerRole     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session",
	Long:  "Exchange email and password for an access token, load the user profile and save both to the session file.",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an applicant or hiring manager account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email (prompted when omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when omitted)")

	registerCmd.Flags().StringVar(&registerName, "name", "", "Full name (required)")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Account email (required)")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Account password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerRole, "role", string(types.RoleApplicant), "applicant or hiring_manager")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

// prompt asks for a value on the command's input when the flag was empty.
func prompt(cmd *cobra.Command, in *bufio.Reader, label, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	email, err := prompt(cmd, in, "Email", loginEmail)
	if err != nil {
		return err
	}
	password, err := prompt(cmd, in, "Password", loginPassword)
	if err != nil {
		return err
	}

	sess, err := a.sessions.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✅ Logged in as %s (%s)\n", sess.User.FullName, sess.User.Role)
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	password, err := prompt(cmd, bufio.NewReader(cmd.InOrStdin()), "Password", registerPassword)
	if err != nil {
		return err
	}

	user, err := a.sessions.Register(cmd.Context(), types.RegisterRequest{
		FullName: registerName,
		Email:    registerEmail,
		Password: password,
		Role:     types.Role(registerRole),
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✅ Registered %s as %s. Run 'hirechat login' to continue.\n", user.Email, user.Role)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.sessions.Logout(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	sess, _, err := a.authenticated(cmd.Context())
	if err != nil {
		return err
	}
	a.printer.PrintUser(sess.User)
	return nil
}
