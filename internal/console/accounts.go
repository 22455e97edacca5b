package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	"github.com/Ipeter02/ccapsystemsynod/internal/service"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

func cmdStatus(ctx context.Context, c *Console, args []string) error {
	if _, err := parse(c.flags("status"), args, 0); err != nil {
		return err
	}
	client := c.client()
	users, err := client.Users(ctx)
	if err != nil {
		return err
	}
	announcements, err := client.Announcements(ctx)
	if err != nil {
		return err
	}
	locations, err := client.Locations(ctx)
	if err != nil {
		return err
	}

	c.printf("mode: %s\n", client.Mode())
	if client.Mode() == service.ModeRemote {
		c.printf("remote: %s\n", client.RemoteBaseURL())
	}
	if u := c.session.Current(); u != nil {
		c.printf("session: %s <%s> %s\n", u.Name, u.Email, u.Role)
	} else {
		c.printf("session: none\n")
	}
	c.printf("users: %d\nannouncements: %d\nlocations: %d\n", len(users), len(announcements), len(locations))
	return nil
}

func cmdLogin(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("login")
	email := fs.StringP("email", "e", "", "account email")
	password := fs.StringP("password", "p", "", "account password")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	user, err := c.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	c.printf("logged in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func cmdLogout(ctx context.Context, c *Console, args []string) error {
	if _, err := parse(c.flags("logout"), args, 0); err != nil {
		return err
	}
	if err := c.session.Logout(ctx); err != nil {
		return err
	}
	c.printf("logged out\n")
	return nil
}

func cmdWhoami(_ context.Context, c *Console, args []string) error {
	if _, err := parse(c.flags("whoami"), args, 0); err != nil {
		return err
	}
	u, err := c.actor()
	if err != nil {
		return err
	}
	c.printf("%s\t%s <%s>\t%s\t%s\tlast login %s\n", u.ID, u.Name, u.Email, u.Role, blank(u.District), since(u.LastLogin))
	return nil
}

func cmdRegister(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("register")
	var req models.RegisterRequest
	var role string
	fs.StringVar(&req.Name, "name", "", "full name")
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.Password, "password", "", "password")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	fs.StringVar(&role, "role", "", "requested role (defaults to PASTOR)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	req.Role = models.Role(strings.ToUpper(role))

	user, err := c.client().Register(ctx, req)
	if err != nil {
		return err
	}
	c.printf("registered %s, awaiting approval\n", user.ID)
	return nil
}

func cmdUsers(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("users")
	status := fs.String("status", "", "only show pending, active or rejected accounts")
	district := fs.String("district", "", "only show accounts in this district")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if *status != "" && !models.Status(*status).Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrUsage, *status)
	}

	users, err := c.client().Users(ctx)
	if err != nil {
		return err
	}
	c.table("ID\tNAME\tEMAIL\tROLE\tSTATUS\tDISTRICT", func(w io.Writer) {
		for _, u := range users {
			if *status != "" && string(u.Status) != *status {
				continue
			}
			if *district != "" && !strings.EqualFold(u.District, *district) {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, blank(string(u.Status)), blank(u.District))
		}
	})
	return nil
}

func cmdRejected(ctx context.Context, c *Console, args []string) error {
	if _, err := parse(c.flags("rejected"), args, 0); err != nil {
		return err
	}
	accounts, err := c.client().RejectedWithGrace(ctx, c.now())
	if err != nil {
		return err
	}
	c.table("ID\tNAME\tEMAIL\tHOURS LEFT\tEXPIRED", func(w io.Writer) {
		for _, a := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%t\n", a.User.ID, a.User.Name, a.User.Email, a.HoursRemaining, a.Expired)
		}
	})
	return nil
}

func cmdApprove(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("approve")
	role := fs.String("role", "", "role to assign")
	district := fs.String("district", "", "district to assign")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	assigned := models.Role(strings.ToUpper(*role))
	if !assigned.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", *role))
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	if err := c.client().Approve(ctx, actor, rest[0], assigned, *district); err != nil {
		return err
	}
	c.printf("approved %s as %s\n", rest[0], assigned)
	return nil
}

func cmdReject(ctx context.Context, c *Console, args []string) error {
	rest, err := parse(c.flags("reject"), args, 1)
	if err != nil {
		return err
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	if err := c.client().Reject(ctx, actor, rest[0]); err != nil {
		return err
	}
	c.printf("rejected %s\n", rest[0])
	return nil
}

func cmdDelete(ctx context.Context, c *Console, args []string) error {
	rest, err := parse(c.flags("delete"), args, 1)
	if err != nil {
		return err
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	if err := c.client().Delete(ctx, actor, rest[0]); err != nil {
		return err
	}
	c.printf("deleted %s\n", rest[0])
	return nil
}

func cmdDeleteAll(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("delete-all")
	yes := fs.Bool("yes", false, "confirm the bulk deletion")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("%w: delete-all requires --yes", ErrUsage)
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	removed, err := c.client().DeleteAllNonAdmins(ctx, actor)
	if err != nil {
		return err
	}
	c.printf("removed %d local account(s)\n", removed)
	return nil
}

func cmdAddUser(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("add-user")
	var user models.User
	var role string
	fs.StringVar(&user.Name, "name", "", "full name")
	fs.StringVar(&user.Email, "email", "", "email address")
	fs.StringVar(&user.Password, "password", "", "initial password")
	fs.StringVar(&user.Phone, "phone", "", "phone number")
	fs.StringVar(&user.District, "district", "", "district")
	fs.StringVar(&role, "role", "", "role (defaults to STAFF)")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	user.Role = models.Role(strings.ToUpper(role))

	actor, err := c.actor()
	if err != nil {
		return err
	}
	created, err := c.client().AddUser(ctx, actor, user)
	if err != nil {
		return err
	}
	c.printf("added %s (%s)\n", created.ID, created.Role)
	return nil
}

func cmdSetRole(ctx context.Context, c *Console, args []string) error {
	rest, err := parse(c.flags("set-role"), args, 2)
	if err != nil {
		return err
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	role := models.Role(strings.ToUpper(rest[1]))
	if err := c.client().ChangeRole(ctx, actor, rest[0], role); err != nil {
		return err
	}
	c.printf("%s is now %s\n", rest[0], role)
	return nil
}

func cmdResetPassword(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("reset-password")
	password := fs.String("password", "", "new password")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	if err := c.client().ResetPassword(ctx, actor, rest[0], *password); err != nil {
		return err
	}
	c.printf("password reset for %s\n", rest[0])
	return nil
}

func cmdUpdateProfile(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("update-profile")
	id := fs.String("id", "", "account to edit (defaults to yourself)")
	fs.String("name", "", "full name")
	fs.String("phone", "", "phone number")
	fs.String("department", "", "department id")
	fs.String("location", "", "church location")
	fs.String("position", "", "position")
	fs.String("meeting-time", "", "regular meeting time")
	fs.String("avatar", "", "avatar URL")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	target := *id
	if target == "" {
		target = actor.ID
	}

	users, err := c.client().Users(ctx)
	if err != nil {
		return err
	}
	idx := models.FindUser(users, target)
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	user := users[idx]
	for flag, field := range map[string]*string{
		"name":         &user.Name,
		"phone":        &user.Phone,
		"department":   &user.Department,
		"location":     &user.Location,
		"position":     &user.Position,
		"meeting-time": &user.MeetingTime,
		"avatar":       &user.Avatar,
	} {
		if fs.Changed(flag) {
			*field = fs.Lookup(flag).Value.String()
		}
	}

	updated, err := c.client().UpdateUser(ctx, actor, user)
	if err != nil {
		return err
	}
	if err := c.session.Refresh(ctx, *updated); err != nil {
		return err
	}
	c.printf("updated %s\n", updated.ID)
	return nil
}

// adminSweepTarget routes grace purges through the client's delete rules on behalf of actor.
type adminSweepTarget struct {
	client *service.SyncClient
	actor  *models.User
}

func (t adminSweepTarget) ListUsers(ctx context.Context) ([]models.User, error) {
	return t.client.Users(ctx)
}

func (t adminSweepTarget) DeleteUser(ctx context.Context, id string) error {
	return t.client.Delete(ctx, t.actor, id)
}

func cmdSweep(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("sweep")
	window := fs.Duration("window", c.grace.Window, "grace window to enforce")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	if !actor.Role.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "administrator access required")
	}

	cfg := c.grace
	cfg.Window = *window
	sweeper := service.NewGraceSweeper(adminSweepTarget{client: c.client(), actor: actor}, cfg, c.logger)
	removed, err := sweeper.Sweep(ctx)
	if err != nil {
		return err
	}
	c.printf("purged %d expired account(s)\n", len(removed))
	for _, id := range removed {
		c.printf("  %s\n", id)
	}
	return nil
}

func since(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
