package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rentgrid/backoffice/internal/backend"
	"github.com/rentgrid/backoffice/internal/core/domain"
	"github.com/rentgrid/backoffice/internal/core/service"
	"github.com/rentgrid/backoffice/internal/forms"
)

// --- bookings ---

func (a *app) bookingsList(ctx context.Context, status, from, to string) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	if status != "" {
		if err := forms.Check(&forms.BookingStatusForm{Status: status}); err != nil {
			return err
		}
	}
	bookings, err := a.api.Bookings(ctx, backend.BookingFilter{
		Status: domain.BookingStatus(status),
		From:   from,
		To:     to,
	})
	if err != nil {
		return err
	}
	return a.printBookings(bookings)
}

func (a *app) bookingsMine(ctx context.Context) error {
	if _, err := a.requireRole(); err != nil {
		return err
	}
	bookings, err := a.api.MyBookings(ctx)
	if err != nil {
		return err
	}
	return a.printBookings(bookings)
}

func (a *app) bookingsCreate(ctx context.Context, input backend.BookingInput) error {
	if _, err := a.requireRole(); err != nil {
		return err
	}
	booking, err := a.api.CreateBooking(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Booking %d created (%s)\n", booking.ID, booking.Status)
	return nil
}

func (a *app) bookingsSetStatus(ctx context.Context, id int64, status string) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	if err := forms.Check(&forms.BookingStatusForm{Status: status}); err != nil {
		return err
	}
	booking, err := a.api.UpdateBookingStatus(ctx, id, domain.BookingStatus(status))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Booking %d is now %s\n", booking.ID, booking.Status)
	return nil
}

func (a *app) printBookings(bookings []domain.Booking) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPICKUP\tDROPOFF\tDATE\tTIME\tSTATUS\tPRICE")
	for _, b := range bookings {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			b.ID, b.PickupLocation, b.DropoffLocation, b.PickupDate, b.PickupTime, b.Status, b.Price)
	}
	return w.Flush()
}

// --- users ---

func (a *app) usersList(ctx context.Context) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	users, err := a.api.Users(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tVERIFIED")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\n", u.ID, u.Name, u.Email, u.Role, u.IsVerified)
	}
	return w.Flush()
}

func (a *app) usersSetRole(ctx context.Context, id int64, role string) error {
	if _, err := a.requireRole(domain.RoleAdmin); err != nil {
		return err
	}
	if err := forms.Check(&forms.RoleForm{Role: role}); err != nil {
		return err
	}
	user, err := a.api.UpdateUserRole(ctx, id, role)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %d (%s) is now %s\n", user.ID, user.Email, user.Role)
	return nil
}

func (a *app) profileUpdate(ctx context.Context, name string) error {
	if _, err := a.requireRole(); err != nil {
		return err
	}
	user, err := a.api.UpdateProfile(ctx, name)
	if err != nil {
		return err
	}
	// Keep the cached session copy in step with the backend.
	if sess, serr := a.sessions.Load(); serr == nil && user != nil {
		sess.User = *user
		if err := a.sessions.Save(sess); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.out, "Profile updated: %s\n", user.Name)
	return nil
}

func (a *app) changePassword(ctx context.Context, current, updated string) error {
	if _, err := a.requireRole(); err != nil {
		return err
	}
	if err := forms.Check(&forms.ChangePasswordForm{CurrentPassword: current, NewPassword: updated}); err != nil {
		return err
	}
	if err := a.api.ChangePassword(ctx, current, updated); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password updated")
	return nil
}

// --- content blocks ---

func (a *app) contentResource() *service.Resource[domain.ContentBlock] {
	ops := service.RemoteOps[domain.ContentBlock]{
		List: func(ctx context.Context) ([]domain.ContentBlock, error) {
			return a.api.ContentBlocks(ctx, "")
		},
		Create: func(ctx context.Context, block domain.ContentBlock) (domain.ContentBlock, error) {
			img := a.pendingContentImage
			a.pendingContentImage = nil
			if img != nil {
				return a.api.CreateContentWithImage(ctx, block, img)
			}
			return a.api.CreateContent(ctx, block)
		},
		Update: func(ctx context.Context, block domain.ContentBlock) (domain.ContentBlock, error) {
			img := a.pendingContentImage
			a.pendingContentImage = nil
			if img != nil {
				return a.api.UpdateContentWithImage(ctx, block, img)
			}
			return a.api.UpdateContent(ctx, block)
		},
		// The backend exposes no content delete; offline removal still works
		// against the local cache.
		Delete: func(ctx context.Context, id int64) error {
			return &backend.RequestError{Status: 405, Message: "content blocks cannot be deleted"}
		},
	}
	return service.NewResource(contentCacheKey, ops, a.store,
		func(b domain.ContentBlock) int64 { return b.ID },
		func(b *domain.ContentBlock, id int64) { b.ID = id },
		a.log)
}

func (a *app) contentList(ctx context.Context) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	content := a.contentResource()
	blocks, err := content.Load(ctx)
	if err != nil {
		return err
	}
	a.printOfflineBadge(content.Offline())
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKEY\tTITLE\tCONTENT")
	for _, b := range blocks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", b.ID, b.Key, b.Title, truncate(b.Content, 60))
	}
	return w.Flush()
}

// contentSet creates or updates the block with the given key.
func (a *app) contentSet(ctx context.Context, key, title, text, image string) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	if err := forms.Check(&forms.ContentForm{Key: key, Title: title}); err != nil {
		return err
	}

	content := a.contentResource()
	blocks, err := content.Load(ctx)
	if err != nil {
		return err
	}
	a.printOfflineBadge(content.Offline())

	block := domain.ContentBlock{Key: key, Title: title, Content: text}
	if image != "" {
		upload, err := readUpload(image)
		if err != nil {
			return err
		}
		if content.Offline() {
			block.ImageURL = dataURL(image, upload.Data)
		} else {
			a.pendingContentImage = upload
		}
	}

	for _, existing := range blocks {
		if existing.Key == key {
			block.ID = existing.ID
			if _, err := content.Update(ctx, block); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %s\n", key)
			return nil
		}
	}

	created, err := content.Create(ctx, block)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s (id %d)\n", created.Key, created.ID)
	return nil
}

// contentSlides replaces the header_slides URL list.
func (a *app) contentSlides(ctx context.Context, urls string) error {
	list := []string{}
	for _, u := range strings.Split(urls, ",") {
		if u = strings.TrimSpace(u); u != "" {
			list = append(list, u)
		}
	}
	encoded, err := jsonEncode(list)
	if err != nil {
		return err
	}
	return a.contentSet(ctx, domain.ContentKeyHeaderSlides, "Header slides", encoded, "")
}

// --- dashboard ---

func (a *app) dashboardSummary(ctx context.Context) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	summary, err := a.api.Summary(ctx)
	if err != nil {
		return err
	}
	a.printSummary(summary)
	return nil
}

func (a *app) dashboardCharts(ctx context.Context, chartRange string) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}
	if !domain.ValidChartRange(chartRange) {
		return fmt.Errorf("range must be one of: %s", strings.Join(domain.ChartRanges, " "))
	}
	charts, err := a.api.Charts(ctx, chartRange)
	if err != nil {
		return err
	}
	a.printCharts(charts)
	return nil
}

// dashboardOverview fetches summary and charts concurrently, the way the
// overview page issues both requests at once.
func (a *app) dashboardOverview(ctx context.Context, chartRange string) error {
	if _, err := a.requireRole(staffRoles()...); err != nil {
		return err
	}

	type chartsResult struct {
		charts *domain.DashboardCharts
		err    error
	}
	ch := make(chan chartsResult, 1)
	go func() {
		charts, err := a.api.Charts(ctx, chartRange)
		ch <- chartsResult{charts, err}
	}()

	summary, err := a.api.Summary(ctx)
	res := <-ch
	if err != nil {
		return err
	}
	if res.err != nil {
		return res.err
	}
	a.printSummary(summary)
	a.printCharts(res.charts)
	return nil
}

func (a *app) printSummary(s *domain.DashboardSummary) {
	fmt.Fprintf(a.out, "Users:    %d total, %d verified, %d admins, %d moderators\n",
		s.Users.Total, s.Users.Verified, s.Users.Admins, s.Users.Moderators)
	fmt.Fprintf(a.out, "Bookings: %d total (%d pending, %d confirmed, %d completed, %d cancelled), %d in last 7 days\n",
		s.Bookings.Total, s.Bookings.Pending, s.Bookings.Confirmed, s.Bookings.Completed,
		s.Bookings.Cancelled, s.Bookings.Recent7Days)
	fmt.Fprintf(a.out, "Revenue:  $%.2f\n", s.Revenue.Total)
}

func (a *app) printCharts(c *domain.DashboardCharts) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tBOOKINGS\tREVENUE\tSIGNUPS")
	for i, p := range c.BookingsOverTime {
		revenue := 0.0
		if i < len(c.RevenueOverTime) {
			revenue = c.RevenueOverTime[i].Revenue
		}
		signups := 0
		if i < len(c.UsersOverTime) {
			signups = c.UsersOverTime[i].Count
		}
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\n", p.Date, p.Count, revenue, signups)
	}
	_ = w.Flush()
}

// --- landing ---

func (a *app) landing(ctx context.Context) error {
	data := service.Prefetch(ctx, a.api)

	if data.AboutErr != nil {
		fmt.Fprintf(a.out, "about: unavailable (%v)\n", data.AboutErr)
	} else if data.About != nil {
		fmt.Fprintf(a.out, "about: %s: %s\n", data.About.Title, truncate(data.About.Content, 80))
	}
	if data.FooterErr != nil {
		fmt.Fprintf(a.out, "footer: unavailable (%v)\n", data.FooterErr)
	} else if data.Footer != nil {
		fmt.Fprintf(a.out, "footer: %s\n", truncate(data.Footer.Content, 80))
	}
	if data.SlidesErr != nil {
		fmt.Fprintf(a.out, "slides: unavailable (%v)\n", data.SlidesErr)
	} else {
		fmt.Fprintf(a.out, "slides: %d\n", len(data.Slides))
	}
	if data.CarsErr != nil {
		fmt.Fprintf(a.out, "cars: unavailable (%v)\n", data.CarsErr)
	} else {
		fmt.Fprintf(a.out, "cars: %d active\n", len(data.Cars))
	}
	return nil
}

// --- helpers ---

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

func jsonEncode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
