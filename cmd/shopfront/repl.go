package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/acastellon/shopfront/internal/auth"
	"github.com/acastellon/shopfront/internal/cart"
	"github.com/acastellon/shopfront/internal/catalog"
	pkgerrors "github.com/acastellon/shopfront/pkg/errors"
	"github.com/acastellon/shopfront/pkg/logger"
	"github.com/acastellon/shopfront/pkg/types"
)

// repl is a thin terminal front end over the client core. It holds no cart
// or auth state of its own.
type repl struct {
	session     *auth.Session
	coordinator *cart.Coordinator
	catalog     *catalog.Service
	logg        *logger.Logger
}

func newREPL(session *auth.Session, coordinator *cart.Coordinator, catalogSvc *catalog.Service, logg *logger.Logger) *repl {
	return &repl{session: session, coordinator: coordinator, catalog: catalogSvc, logg: logg}
}

func (r *repl) run(ctx context.Context) error {
	fmt.Println("shopfront — type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}
		r.dispatch(ctx, fields[0], fields[1:])
	}
}

func (r *repl) dispatch(ctx context.Context, command string, args []string) {
	var err error
	switch command {
	case "help":
		r.printHelp()
	case "products":
		err = r.listProducts(ctx)
	case "sale":
		err = r.listSale(ctx)
	case "search":
		err = r.search(ctx, strings.Join(args, " "))
	case "categories":
		err = r.listCategories(ctx)
	case "cart":
		err = r.showCart(ctx)
	case "add":
		err = r.add(ctx, args)
	case "update":
		err = r.update(ctx, args)
	case "remove":
		err = r.remove(ctx, args)
	case "clear":
		err = r.coordinator.ClearCart(ctx)
	case "guest":
		_, err = r.coordinator.ContinueAsGuest(ctx)
	case "signin":
		err = r.signIn(ctx, args)
	case "logout":
		r.session.Logout(ctx)
		fmt.Println("signed out")
	case "coupon":
		err = r.coupon(ctx, args)
	case "whoami":
		r.whoami()
	default:
		fmt.Println("unknown command, type 'help'")
	}
	if err != nil {
		fmt.Println("! " + pkgerrors.UserMessage(err))
		r.logg.Debug(ctx, "command failed: "+err.Error())
	}
}

func (r *repl) printHelp() {
	fmt.Println(`commands:
  products | sale | search <keyword> | categories
  cart | add <productId> <qty> [size] [color] | update <productId> <qty>
  remove <productId> | clear | coupon <code>
  signin <email> <password> | guest | logout | whoami | exit`)
}

func (r *repl) listProducts(ctx context.Context) error {
	products, err := r.catalog.Products(ctx)
	if err != nil {
		return err
	}
	printProducts(products)
	return nil
}

func (r *repl) listSale(ctx context.Context) error {
	products, err := r.catalog.OnSale(ctx)
	if err != nil {
		return err
	}
	printProducts(products)
	return nil
}

func (r *repl) search(ctx context.Context, keyword string) error {
	if keyword == "" {
		fmt.Println("usage: search <keyword>")
		return nil
	}
	products, err := r.catalog.Search(ctx, keyword)
	if err != nil {
		return err
	}
	printProducts(products)
	return nil
}

func (r *repl) listCategories(ctx context.Context) error {
	tree, err := r.catalog.Tree(ctx)
	if err != nil {
		return err
	}
	printCategories(tree, 0)
	return nil
}

func (r *repl) showCart(ctx context.Context) error {
	current, err := r.coordinator.ActiveCart(ctx)
	if err != nil {
		return err
	}
	if len(current.Items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, item := range current.Items {
		variant := ""
		if item.Size != "" || item.Color != "" {
			variant = fmt.Sprintf(" (%s %s)", item.Size, item.Color)
		}
		fmt.Printf("  %s x%d%s  %s\n", item.ProductName, item.Quantity, variant, item.LineSubtotal.StringFixed(2))
	}
	fmt.Printf("  total: %s (%d items)\n", current.TotalPrice.StringFixed(2), current.ItemCount)
	return nil
}

func (r *repl) add(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Println("usage: add <productId> <qty> [size] [color]")
		return nil
	}
	quantity, convErr := strconv.Atoi(args[1])
	if convErr != nil {
		fmt.Println("quantity must be a number")
		return nil
	}
	size, color := "", ""
	if len(args) > 2 {
		size = args[2]
	}
	if len(args) > 3 {
		color = args[3]
	}

	product, err := r.catalog.Product(ctx, args[0])
	if err != nil {
		return err
	}

	_, outcome, err := r.coordinator.AddToCart(ctx, product, quantity, size, color)
	if err != nil {
		return err
	}
	if outcome == cart.OutcomeDecisionRequired {
		fmt.Println("sign in to add this item, or type 'guest' to continue as guest,")
		fmt.Println("then 'signin <email> <password>' replays the add after login")
	}
	return nil
}

func (r *repl) update(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Println("usage: update <productId> <qty>")
		return nil
	}
	quantity, convErr := strconv.Atoi(args[1])
	if convErr != nil {
		fmt.Println("quantity must be a number")
		return nil
	}
	_, err := r.coordinator.UpdateItem(ctx, args[0], quantity)
	return err
}

func (r *repl) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("usage: remove <productId>")
		return nil
	}
	_, err := r.coordinator.RemoveItem(ctx, args[0])
	return err
}

func (r *repl) signIn(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Println("usage: signin <email> <password>")
		return nil
	}
	user, err := r.session.Login(ctx, args[0], args[1], false)
	if err != nil {
		return err
	}
	fmt.Println("signed in as " + user.Email)
	return nil
}

func (r *repl) coupon(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Println("usage: coupon <code>")
		return nil
	}
	updated, err := r.coordinator.ApplyCoupon(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("coupon applied, total now %s\n", updated.TotalPrice.StringFixed(2))
	return nil
}

func (r *repl) whoami() {
	if user := r.session.User(); user != nil {
		fmt.Println(user.Email)
		return
	}
	fmt.Println("guest")
}

func printProducts(products []types.Product) {
	if len(products) == 0 {
		fmt.Println("no products")
		return
	}
	for _, p := range products {
		price := p.EffectivePrice().StringFixed(2)
		tag := ""
		if p.OnSale {
			tag = " [sale]"
		}
		fmt.Printf("  %-12s %-30s %s%s (stock %d)\n", p.ID, p.Name, price, tag, p.StockQuantity)
	}
}

func printCategories(categories []types.Category, depth int) {
	for _, c := range categories {
		fmt.Printf("%s%s (%s)\n", strings.Repeat("  ", depth+1), c.Name, c.ID)
		printCategories(c.Children, depth+1)
	}
}
