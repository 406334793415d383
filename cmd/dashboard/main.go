package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	blockchain "github.com/rahulpokala13/PandoraBox/blockchain/client"
	"github.com/rahulpokala13/PandoraBox/config"
	"github.com/rahulpokala13/PandoraBox/internal/models"
	"github.com/rahulpokala13/PandoraBox/ledger"
	"github.com/rahulpokala13/PandoraBox/qr"
	"github.com/rahulpokala13/PandoraBox/reconcile"
	"github.com/rahulpokala13/PandoraBox/session"
)

func main() {
	configDir := flag.String("config", "./config", "configuration directory")
	flag.Parse()

	logger := log.New(os.Stdout, "[DASHBOARD] ", log.LstdFlags)
	logger.Println("Starting PandoraBox dashboard...")

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		logger.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	store, err := ledger.NewFileStore(cfg.App.LedgerDir, logger)
	if err != nil {
		logger.Fatalf("FATAL: Failed to open local ledger: %v", err)
	}

	chainConfigPath := filepath.Join(*configDir, "client_config.yml")
	factory := func() (blockchain.ChainClient, error) {
		if _, err := os.Stat(chainConfigPath); err != nil {
			logger.Println("No chain config found, using in-process simulator")
			return blockchain.NewMemoryClient(logger), nil
		}
		return blockchain.NewChainClientFromFile(chainConfigPath, logger)
	}

	manager := session.NewManager(store, factory, logger)
	engine := reconcile.New(manager, store, logger)
	manager.SetHealer(engine)
	defer manager.Logout()

	d := &dashboard{
		logger:  logger,
		cfg:     cfg,
		store:   store,
		manager: manager,
		engine:  engine,
		in:      bufio.NewReader(os.Stdin),
	}
	d.run()
}

type dashboard struct {
	logger  *log.Logger
	cfg     *config.Config
	store   ledger.Store
	manager *session.Manager
	engine  *reconcile.Engine
	in      *bufio.Reader
}

func (d *dashboard) run() {
	for {
		fmt.Println("\nOptions: signup, login, logout, whoami, register, verify, products, qr, exit")
		action := strings.ToLower(d.ask("What would you like to do? "))

		switch action {
		case "exit":
			fmt.Println("Exiting dashboard...")
			return
		case "signup":
			d.signup()
		case "login":
			d.login()
		case "logout":
			d.manager.Logout()
			fmt.Println("Logged out.")
		case "whoami":
			d.whoami()
		case "register":
			d.register()
		case "verify":
			d.verify()
		case "products":
			d.products()
		case "qr":
			d.generateQR()
		default:
			fmt.Println("Invalid option. Try 'register', 'verify', or 'exit'.")
		}
	}
}

func (d *dashboard) ask(question string) string {
	fmt.Print(question)
	line, err := d.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (d *dashboard) signup() {
	username := d.ask("Choose a username: ")
	password := d.ask("Choose a password: ")
	role := models.Role(strings.ToLower(d.ask("Role (seller/customer): ")))
	wallet := d.ask("Wallet address (optional, press enter to skip): ")

	sess, err := d.manager.Register(username, password, role, wallet)
	if err != nil {
		fmt.Println("Signup failed:", err)
		return
	}
	fmt.Printf("Welcome, %s! You are signed in as %s.\n", sess.Username, sess.Role)
}

func (d *dashboard) login() {
	username := d.ask("Username: ")
	password := d.ask("Password: ")

	sess, err := d.manager.Login(username, password)
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	fmt.Printf("Logged in as %s (%s).\n", sess.Username, sess.Role)
}

func (d *dashboard) whoami() {
	identity, ok := d.manager.CurrentIdentity()
	if !ok {
		fmt.Println("Not logged in.")
		return
	}
	fmt.Printf("%s (%s), registered %s\n", identity.Username, identity.Role, identity.RegistrationDate)
}

func (d *dashboard) register() {
	sess, ok := d.manager.Current()
	if !ok {
		fmt.Println("Please log in first.")
		return
	}
	if sess.Role != models.RoleSeller {
		fmt.Println("Only sellers can register products.")
		return
	}

	name := d.ask("Enter product name: ")
	id := d.ask("Enter product ID: ")

	receipt, err := d.engine.RegisterProduct(context.Background(), name, id, sess.Username)
	if err != nil {
		fmt.Println("Registration failed:", err)
		return
	}
	fmt.Printf("Registered %s with ID %s (tx %s, block %d)\n", name, id, receipt.TxHash, receipt.BlockNumber)
}

func (d *dashboard) verify() {
	sess, ok := d.manager.Current()
	if !ok {
		fmt.Println("Please log in first.")
		return
	}

	input := d.ask("Enter product ID (or scanned QR payload): ")
	id := input
	if extracted, err := qr.ParsePayload(input); err == nil {
		id = extracted
	}

	outcome, err := d.engine.VerifyAndMerge(context.Background(), id, sess.Username, func(s reconcile.State) {
		d.logger.Printf("Verification state: %s", s)
	})
	if err != nil {
		fmt.Println("Verification failed:", err)
		return
	}

	if !outcome.Registered {
		fmt.Printf("Product '%s' is NOT registered.\n", outcome.ProductID)
		return
	}

	registered := time.Unix(int64(outcome.Product.Timestamp), 0).Format(time.RFC1123)
	fmt.Printf("Product '%s' (%s) registered by %s at %s, block %d\n",
		outcome.ProductID, outcome.Product.Name, outcome.RegisteredByName, registered, outcome.Product.BlockNumber)

	fmt.Printf("Verification history (%d):\n", len(outcome.Verifications))
	for i, v := range outcome.Verifications {
		when := time.Unix(int64(v.Timestamp), 0).Format(time.RFC1123)
		fmt.Printf("  %d. %s (%s) at %s\n", i+1, v.Username, truncateAddress(v.Verifier), when)
	}
}

func (d *dashboard) products() {
	products, err := d.store.GetProducts()
	if err != nil {
		fmt.Println("Cannot read product cache:", err)
		return
	}
	if len(products) == 0 {
		fmt.Println("No locally cached products.")
		return
	}
	for _, p := range products {
		when := time.Unix(int64(p.Timestamp), 0).Format(time.RFC1123)
		fmt.Printf("  %s: %s (seller %s, %s)\n", p.ProductID, p.Name, p.Seller, when)
	}
}

func (d *dashboard) generateQR() {
	id := d.ask("Enter product ID: ")
	out := d.ask("Output PNG path: ")

	png, err := qr.Image(d.cfg.App.QRBaseURL, id, 256)
	if err != nil {
		fmt.Println("QR generation failed:", err)
		return
	}
	if err := os.WriteFile(out, png, 0o644); err != nil {
		fmt.Println("Cannot write PNG:", err)
		return
	}
	fmt.Printf("QR code for '%s' written to %s\n", id, out)
}

func truncateAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-4:]
}
