package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sessionkeeper/internal/models"
)

// Whoami prints the signed-in user together with role and permissions.
func (a *App) Whoami(ctx context.Context) error {
	u := a.manager.CurrentUser()
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	fmt.Fprintf(a.out, "%s <%s>\n", u.DisplayName(), u.Email)
	fmt.Fprintf(a.out, "  id:          %s\n", u.ID)
	fmt.Fprintf(a.out, "  role:        %s\n", u.Role)
	fmt.Fprintf(a.out, "  permissions: %s\n", strings.Join(u.Permissions, ", "))
	if u.Avatar != "" {
		fmt.Fprintf(a.out, "  avatar:      %s\n", u.Avatar)
	}
	if st := a.manager.State(); st.Tokens != nil {
		fmt.Fprintf(a.out, "  expires at:  %s\n", st.Tokens.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Status prints the state machine flags.
func (a *App) Status(ctx context.Context) error {
	st := a.manager.State()

	fmt.Fprintf(a.out, "status:        %s\n", st.Status)
	fmt.Fprintf(a.out, "authenticated: %t\n", st.Authenticated)
	fmt.Fprintf(a.out, "loading:       %t\n", st.Loading)
	fmt.Fprintf(a.out, "initialized:   %t\n", st.Initialized)
	if mode := a.getMode(); mode != "" {
		fmt.Fprintf(a.out, "backend:       %s\n", mode)
	}
	if msg := st.ErrorMessage(); msg != "" {
		fmt.Fprintf(a.out, "error:         %s\n", msg)
	}
	return nil
}

// Profile prompts for display fields and saves them through the backend.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	patch, err := a.promptPatch()
	if err != nil || patch.Empty() {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	a.manager.SaveProfile(ctx, patch)
	return nil
}

// Edit prompts for display fields and applies them to the local session
// only.
func (a *App) Edit(ctx context.Context) error {
	if a.manager.CurrentUser() == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	patch, err := a.promptPatch()
	if err != nil || patch.Empty() {
		return err
	}

	a.manager.UpdateUser(ctx, patch)
	return nil
}

func (a *App) promptPatch() (models.UserPatch, error) {
	var (
		p   models.UserPatch
		err error
	)
	if p.FirstName, err = getOptionalText(a.reader, "First name", a.out); err != nil {
		return p, err
	}
	if p.LastName, err = getOptionalText(a.reader, "Last name", a.out); err != nil {
		return p, err
	}
	if p.Avatar, err = getOptionalText(a.reader, "Avatar URL", a.out); err != nil {
		return p, err
	}
	return p, nil
}

// Clear drops the local session without calling the backend.
func (a *App) Clear(ctx context.Context) error {
	a.manager.Clear(ctx)
	return nil
}

// Dismiss clears the last error.
func (a *App) Dismiss(ctx context.Context) error {
	a.manager.ClearError()
	return nil
}
