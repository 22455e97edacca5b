package console

import (
	"context"
	"fmt"
	"io"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

func cmdAnnouncements(ctx context.Context, c *Console, args []string) error {
	if _, err := parse(c.flags("announcements"), args, 0); err != nil {
		return err
	}
	items, err := c.client().Announcements(ctx)
	if err != nil {
		return err
	}
	c.table("ID\tDATE\tTITLE\tAUTHOR\tDEPARTMENT", func(w io.Writer) {
		for _, a := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, blank(a.Date), a.Title, blank(a.Author), blank(a.DepartmentID))
		}
	})
	return nil
}

func cmdAnnounce(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("announce")
	var a models.Announcement
	fs.StringVar(&a.Title, "title", "", "headline")
	fs.StringVar(&a.Message, "message", "", "body text")
	fs.StringVar(&a.DepartmentID, "department", "", "department id")
	fs.StringVar(&a.MeetingTime, "meeting-time", "", "meeting time, if any")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	actor, err := c.actor()
	if err != nil {
		return err
	}
	a.Author = actor.Name

	created, err := c.client().CreateAnnouncement(ctx, a)
	if err != nil {
		return err
	}
	c.printf("published %s\n", created.ID)
	return nil
}

func cmdEditAnnouncement(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("edit-announcement")
	fs.String("title", "", "headline")
	fs.String("message", "", "body text")
	fs.String("department", "", "department id")
	fs.String("meeting-time", "", "meeting time, if any")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	if _, err := c.actor(); err != nil {
		return err
	}

	items, err := c.client().Announcements(ctx)
	if err != nil {
		return err
	}
	var target *models.Announcement
	for i := range items {
		if items[i].ID == rest[0] {
			target = &items[i]
			break
		}
	}
	if target == nil {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("announcement %s not found", rest[0]))
	}
	for flag, field := range map[string]*string{
		"title":        &target.Title,
		"message":      &target.Message,
		"department":   &target.DepartmentID,
		"meeting-time": &target.MeetingTime,
	} {
		if fs.Changed(flag) {
			*field = fs.Lookup(flag).Value.String()
		}
	}

	if _, err := c.client().UpdateAnnouncement(ctx, *target); err != nil {
		return err
	}
	c.printf("updated announcement %s\n", target.ID)
	return nil
}

func cmdUnannounce(ctx context.Context, c *Console, args []string) error {
	rest, err := parse(c.flags("unannounce"), args, 1)
	if err != nil {
		return err
	}
	if _, err := c.actor(); err != nil {
		return err
	}
	if err := c.client().DeleteAnnouncement(ctx, rest[0]); err != nil {
		return err
	}
	c.printf("deleted announcement %s\n", rest[0])
	return nil
}

func cmdRemoveLocation(ctx context.Context, c *Console, args []string) error {
	rest, err := parse(c.flags("remove-location"), args, 1)
	if err != nil {
		return err
	}
	if _, err := c.actor(); err != nil {
		return err
	}
	if err := c.client().DeleteLocation(ctx, rest[0]); err != nil {
		return err
	}
	c.printf("removed location %s\n", rest[0])
	return nil
}

func cmdLocations(ctx context.Context, c *Console, args []string) error {
	if _, err := parse(c.flags("locations"), args, 0); err != nil {
		return err
	}
	items, err := c.client().Locations(ctx)
	if err != nil {
		return err
	}
	c.table("ID\tNAME\tDISTRICT\tADDRESS", func(w io.Writer) {
		for _, l := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ID, l.Name, blank(l.District), blank(l.Address))
		}
	})
	return nil
}

func cmdAddLocation(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("add-location")
	var l models.ChurchLocation
	fs.StringVar(&l.Name, "name", "", "congregation name")
	fs.StringVar(&l.District, "district", "", "district")
	fs.StringVar(&l.Address, "address", "", "street address")
	fs.StringVar(&l.AdminID, "admin", "", "id of the administering account")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if _, err := c.actor(); err != nil {
		return err
	}
	created, err := c.client().CreateLocation(ctx, l)
	if err != nil {
		return err
	}
	c.printf("registered location %s\n", created.ID)
	return nil
}

func cmdSubscribe(ctx context.Context, c *Console, args []string) error {
	rest, err := parse(c.flags("subscribe"), args, 1)
	if err != nil {
		return err
	}
	added, err := c.client().Records().Subscribe(ctx, rest[0])
	if err != nil {
		return err
	}
	if !added {
		c.printf("%s is already subscribed\n", rest[0])
		return nil
	}
	c.printf("subscribed %s\n", rest[0])
	return nil
}

func cmdSubscribers(ctx context.Context, c *Console, args []string) error {
	if _, err := parse(c.flags("subscribers"), args, 0); err != nil {
		return err
	}
	subs, err := c.client().Records().Subscribers(ctx)
	if err != nil {
		return err
	}
	c.table("ID\tEMAIL\tJOINED", func(w io.Writer) {
		for _, s := range subs {
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Email, blank(s.DateJoined))
		}
	})
	return nil
}

func cmdNewsletter(ctx context.Context, c *Console, args []string) error {
	fs := c.flags("newsletter")
	subject := fs.String("subject", "", "subject line")
	content := fs.String("content", "", "body text")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if _, err := c.actor(); err != nil {
		return err
	}
	campaign, err := c.client().Records().SendNewsletter(ctx, *subject, *content)
	if err != nil {
		return err
	}
	c.printf("sent %q to %d subscriber(s)\n", campaign.Subject, campaign.RecipientCount)
	return nil
}
