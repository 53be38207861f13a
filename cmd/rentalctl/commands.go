package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"vehicle-rental-admin/internal/client"
	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/state"
	"vehicle-rental-admin/internal/syncer"
	"vehicle-rental-admin/internal/view"
)

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	userID := fs.String("user", "", "login id")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := a.sessions.Login(ctx, *userID, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", u.DisplayName(), u.Role)
	if u.NeedsProfileSetup() {
		fmt.Fprintln(a.out, "Your profile is incomplete; finish it before using the dashboard.")
	}
	return nil
}

func runLogout(ctx context.Context, a *app, args []string) error {
	if _, ok := a.sessions.Restore(ctx); !ok {
		fmt.Fprintln(a.out, "No active session")
		return nil
	}
	a.sessions.Logout()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlags("register")
	userID := fs.String("user", "", "login id")
	password := fs.String("password", "", "password")
	role := fs.String("role", string(domain.RoleCustomer), "customer or branch-admin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	u, err := a.sessions.Register(ctx, *userID, *password, domain.Role(*role))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s as %s; status %s until an admin approves it\n", u.UserID, u.Role, u.Status)
	return nil
}

func runWhoami(ctx context.Context, a *app, args []string) error {
	u, err := a.restore(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s) id=%d role=%s status=%s\n", u.DisplayName(), u.UserID, u.ID, u.Role, u.Status)
	return nil
}

// dashboard is what every role controller offers the CLI.
type dashboard interface {
	Mount(ctx context.Context) error
	Start(ctx context.Context) error
	Stop()
}

type dashboards struct {
	user     *domain.User
	admin    *syncer.AdminController
	branch   *syncer.BranchController
	customer *syncer.CustomerController
}

func (d dashboards) current() dashboard {
	switch {
	case d.admin != nil:
		return d.admin
	case d.branch != nil:
		return d.branch
	default:
		return d.customer
	}
}

// open restores the session and loads the dashboard of its role.
func (a *app) open(ctx context.Context) (dashboards, error) {
	d, err := a.dashboards(ctx)
	if err != nil {
		return dashboards{}, err
	}
	if err := d.current().Mount(ctx); err != nil {
		return dashboards{}, err
	}
	return d, nil
}

// dashboards restores the session and builds the controller of its role.
func (a *app) dashboards(ctx context.Context) (dashboards, error) {
	u, err := a.restore(ctx)
	if err != nil {
		return dashboards{}, err
	}
	d := dashboards{user: u}
	switch u.Role {
	case domain.RoleAdmin:
		d.admin = syncer.NewAdminController(a.client, a.store, a.sched, a.cfg.Sync)
	case domain.RoleBranchAdmin:
		d.branch = syncer.NewBranchController(a.client, a.store, a.sched, a.cfg.Sync)
	case domain.RoleCustomer:
		d.customer = syncer.NewCustomerController(a.client, a.store, a.sched, a.cfg.Sync)
	default:
		return dashboards{}, fmt.Errorf("no dashboard for role %q", u.Role)
	}
	return d, nil
}

func runInventory(ctx context.Context, a *app, args []string) error {
	f := view.DefaultInventoryFilter()
	fs := newFlags("inventory")
	fs.StringVar(&f.Query, "q", "", "search name, brand or type")
	fs.Float64Var(&f.MinPrice, "min", f.MinPrice, "minimum price per day")
	fs.Float64Var(&f.MaxPrice, "max", f.MaxPrice, "maximum price per day, 0 for no limit")
	fs.StringVar(&f.Type, "type", "", "exact vehicle type")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := a.open(ctx); err != nil {
		return err
	}
	printVehicles(a.out, view.FilterInventory(a.store.State().Vehicles, f))
	return nil
}

func runPending(ctx context.Context, a *app, args []string) error {
	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	s := a.store.State()
	switch d.user.Role {
	case domain.RoleAdmin:
		printUsers(a.out, view.PendingUsers(s.Users))
		fmt.Fprintln(a.out)
		printRequests(a.out, view.PendingRequests(s.VehicleRequests))
	case domain.RoleBranchAdmin:
		printBookings(a.out, view.PendingBookings(view.BranchBookings(s.Bookings, d.user.ID)))
	default:
		printBookings(a.out, view.PendingBookings(view.CustomerBookings(s.Bookings, d.user.ID)))
	}
	return nil
}

func runStats(ctx context.Context, a *app, args []string) error {
	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	printStats(a.out, d.user, a.store.State())
	return nil
}

func printStats(w io.Writer, u *domain.User, s state.State) {
	switch u.Role {
	case domain.RoleAdmin:
		st := view.ComputeAdminStats(s.Users, s.Vehicles, s.VehicleRequests)
		fmt.Fprintf(w, "vehicles=%d units=%d/%d pending_users=%d pending_requests=%d branches=%d customers=%d\n",
			st.TotalVehicles, st.AvailableUnits, st.TotalStock, st.PendingUsers, st.PendingRequests, st.BranchAdmins, st.Customers)
	case domain.RoleBranchAdmin:
		st := view.ComputeBranchStats(u.ID, s.Bookings, s.VehicleRequests)
		fmt.Fprintf(w, "bookings=%d pending=%d approved=%d pending_requests=%d revenue=%.2f\n",
			st.TotalBookings, st.PendingBookings, st.ApprovedBookings, st.PendingRequests, st.Revenue)
	case domain.RoleCustomer:
		st := view.ComputeCustomerStats(u.ID, s.Vehicles, s.Bookings)
		fmt.Fprintf(w, "available_vehicles=%d my_bookings=%d pending_approval=%d\n",
			st.AvailableVehicles, st.MyBookings, st.PendingApproval)
	}
}

type decision struct {
	kind  string
	id    int64
	qty   int
	notes string
}

func parseDecision(name string, args []string, withQty bool) (decision, error) {
	var d decision
	fs := newFlags(name)
	fs.StringVar(&d.kind, "kind", "", "user, request or booking")
	fs.Int64Var(&d.id, "id", 0, "record id")
	fs.StringVar(&d.notes, "notes", "", "notes sent with the decision")
	if withQty {
		fs.IntVar(&d.qty, "qty", -1, "approved quantity for a stock request, all when omitted")
	}
	if err := fs.Parse(args); err != nil {
		return d, err
	}
	if d.id == 0 {
		return d, &client.ValidationError{Field: "id", Message: "An id is required"}
	}
	return d, nil
}

func runApprove(ctx context.Context, a *app, args []string) error {
	dec, err := parseDecision("approve", args, true)
	if err != nil {
		return err
	}
	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	switch {
	case dec.kind == "user" && d.admin != nil:
		u, err := d.admin.ApproveUser(ctx, dec.id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "User %s is %s\n", u.UserID, u.Status)
	case dec.kind == "request" && d.admin != nil:
		var qty *int
		if dec.qty >= 0 {
			qty = &dec.qty
		}
		r, err := d.admin.ApproveRequest(ctx, dec.id, qty, dec.notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Request %d is %s (%d of %d)\n", r.ID, r.Status, r.Granted(), r.RequestedQuantity)
	case dec.kind == "booking" && d.branch != nil:
		b, err := d.branch.ApproveBooking(ctx, dec.id, dec.notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Booking %d is %s\n", b.ID, b.Status)
	default:
		return fmt.Errorf("a %s cannot approve a %q", d.user.Role, dec.kind)
	}
	return nil
}

func runReject(ctx context.Context, a *app, args []string) error {
	dec, err := parseDecision("reject", args, false)
	if err != nil {
		return err
	}
	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	switch {
	case dec.kind == "user" && d.admin != nil:
		u, err := d.admin.RejectUser(ctx, dec.id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "User %s is %s\n", u.UserID, u.Status)
	case dec.kind == "request" && d.admin != nil:
		r, err := d.admin.RejectRequest(ctx, dec.id, dec.notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Request %d is %s\n", r.ID, r.Status)
	case dec.kind == "booking" && d.branch != nil:
		b, err := d.branch.RejectBooking(ctx, dec.id, dec.notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Booking %d is %s\n", b.ID, b.Status)
	default:
		return fmt.Errorf("a %s cannot reject a %q", d.user.Role, dec.kind)
	}
	return nil
}

func runBook(ctx context.Context, a *app, args []string) error {
	fs := newFlags("book")
	vehicleID := fs.Int64("vehicle", 0, "vehicle id")
	branchID := fs.Int64("branch", 0, "branch id, see the branches listed when omitted")
	start := fs.String("start", "", "start date, YYYY-MM-DD")
	end := fs.String("end", "", "end date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	if d.customer == nil {
		return fmt.Errorf("only customers book vehicles")
	}

	branches, err := d.customer.Branches(ctx)
	if err != nil {
		return err
	}
	var branch syncer.Branch
	for _, b := range branches {
		if b.ID == *branchID {
			branch = b
		}
	}
	if branch.ID == 0 {
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "BRANCH\tNAME\tADDRESS")
		for _, b := range branches {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", b.ID, b.Name, b.Address)
		}
		tw.Flush()
	}

	b, err := d.customer.Book(ctx, *vehicleID, branch, *start, *end)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Booking %d for %s at %s is %s, total %.2f\n", b.ID, b.VehicleName, b.BranchName, b.Status, b.TotalAmount)
	return nil
}

func runRequest(ctx context.Context, a *app, args []string) error {
	fs := newFlags("request")
	vehicleID := fs.Int64("vehicle", 0, "vehicle id")
	qty := fs.Int("qty", 0, "units requested")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := a.open(ctx)
	if err != nil {
		return err
	}
	if d.branch == nil {
		return fmt.Errorf("only branch admins request stock")
	}
	r, err := d.branch.RequestVehicles(ctx, *vehicleID, *qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Request %d for %d x %s is %s\n", r.ID, r.RequestedQuantity, r.VehicleName, r.Status)
	return nil
}

// runWatch keeps the role's dashboard live and prints its figures whenever
// the state changes, until interrupted.
func runWatch(ctx context.Context, a *app, args []string) error {
	d, err := a.dashboards(ctx)
	if err != nil {
		return err
	}

	// latest state only; a slow terminal skips intermediate ones
	changes := make(chan state.State, 1)
	unsubscribe := a.store.Subscribe(func(_, next state.State) {
		for {
			select {
			case changes <- next:
				return
			default:
			}
			select {
			case <-changes:
			default:
			}
		}
	})
	defer unsubscribe()

	a.sched.Start()
	defer a.sched.Stop()
	dash := d.current()
	if err := dash.Start(ctx); err != nil {
		return err
	}
	defer dash.Stop()
	fmt.Fprintln(a.out, "Watching; press Ctrl+C to stop.")

	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-changes:
			if !s.Authenticated() {
				return errNotLoggedIn
			}
			printStats(a.out, d.user, s)
		}
	}
}

func printVehicles(w io.Writer, vehicles []domain.Vehicle) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPRICE/DAY\tAVAILABLE")
	for _, v := range vehicles {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%d/%d\n", v.ID, v.Name, v.Type, v.PricePerDay, v.Availability, v.TotalStock)
	}
	tw.Flush()
}

func printUsers(w io.Writer, users []domain.User) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tROLE\tSTATUS\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.UserID, u.Role, u.Status, u.CreatedAt)
	}
	tw.Flush()
}

func printRequests(w io.Writer, requests []domain.VehicleRequest) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRANCH\tVEHICLE\tQTY\tSTATUS")
	for _, r := range requests {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", r.ID, r.BranchName, r.VehicleName, r.RequestedQuantity, r.Status)
	}
	tw.Flush()
}

func printBookings(w io.Writer, bookings []domain.Booking) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tVEHICLE\tFROM\tTO\tTOTAL\tSTATUS")
	for _, b := range bookings {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.2f\t%s\n", b.ID, b.CustomerName, b.VehicleName, b.StartDate, b.EndDate, b.TotalAmount, b.Status)
	}
	tw.Flush()
}
