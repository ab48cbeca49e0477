package main

import (
	"fmt"

	"github.com/fentz26/papercheck/internal/api"
	"github.com/fentz26/papercheck/internal/auth"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the checking service",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	RunE:  runPasswd,
}

var (
	loginUsername string
	regUsername   string
	regEmail      string
	regFullName   string
)

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")

	registerCmd.Flags().StringVarP(&regUsername, "username", "u", "", "Username (required)")
	registerCmd.Flags().StringVar(&regEmail, "email", "", "Email address (required)")
	registerCmd.Flags().StringVar(&regFullName, "name", "", "Full name")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	username := loginUsername
	if username == "" {
		var err error
		if username, err = promptLine("Username: "); err != nil {
			return err
		}
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	client, mgr, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	resp, err := client.Login(ctx, username, password)
	if err != nil {
		return friendly(err)
	}

	if err := mgr.SaveSession(auth.Session{
		Token:     resp.AccessToken,
		ExpiresAt: resp.ExpiresAt,
		User:      resp.User,
	}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	fmt.Printf("Logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	user, err := client.Register(ctx, api.RegisterRequest{
		Username: regUsername,
		Email:    regEmail,
		Password: password,
		FullName: regFullName,
	})
	if err != nil {
		return friendly(err)
	}

	fmt.Printf("Account created: %s. Now run 'papercheck login'.\n", user.Username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, mgr, err := apiClient()
	if err != nil {
		return err
	}

	if mgr.Token() != "" {
		ctx, cancel := cmdContext()
		defer cancel()
		// Best effort; the local session is cleared regardless.
		if err := client.Logout(ctx); err != nil {
			log.WithError(err).Debug("server-side logout failed")
		}
	}

	if err := mgr.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, mgr, err := apiClient()
	if err != nil {
		return err
	}
	if !mgr.IsAuthenticated() {
		return fmt.Errorf("not logged in - run 'papercheck login'")
	}

	ctx, cancel := cmdContext()
	defer cancel()

	user, err := client.Me(ctx)
	if err != nil {
		return friendly(err)
	}
	fmt.Printf("%s <%s> role=%s\n", user.Username, user.Email, user.Role)
	return nil
}

func runPasswd(cmd *cobra.Command, args []string) error {
	oldPassword, err := promptPassword("Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := promptPassword("New password: ")
	if err != nil {
		return err
	}

	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	if err := client.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return friendly(err)
	}
	fmt.Println("Password changed")
	return nil
}
