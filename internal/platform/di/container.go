// internal/platform/di/container.go
package di

import (
	"context"
	"log"
	"net/http"
	"strings"

	"brewhaven/internal/adapters/in/http/admin"
	adminHandler "brewhaven/internal/adapters/in/http/admin/handler"
	"brewhaven/internal/adapters/in/http/middleware"
	"brewhaven/internal/adapters/in/http/store"
	storeHandler "brewhaven/internal/adapters/in/http/store/handler"
	fsadapter "brewhaven/internal/adapters/out/firestore"
	"brewhaven/internal/adapters/out/mail"
	"brewhaven/internal/adapters/out/memory"
	"brewhaven/internal/adapters/out/redisstore"
	usecase "brewhaven/internal/application/usecase"
	cartdom "brewhaven/internal/domain/cart"
	custdom "brewhaven/internal/domain/customer"
	orderdom "brewhaven/internal/domain/order"
	retdom "brewhaven/internal/domain/returnreq"
	"brewhaven/internal/domain/sequence"
	appcfg "brewhaven/internal/infra/config"
	firebaseinfra "brewhaven/internal/infra/firebase"
	firestoreinfra "brewhaven/internal/infra/firestore"
	redisinfra "brewhaven/internal/infra/redis"
	"brewhaven/internal/infra/secrets"
)

// Container wires config, external clients, adapters, usecases and the
// HTTP handler tree. Missing project/Redis configuration degrades to
// in-memory adapters so the service still runs locally.
type Container struct {
	Config *appcfg.Config

	// External clients (Close-managed; nil in memory mode)
	Firestore    *firestoreinfra.ClientWrapper
	FirebaseAuth *middleware.FirebaseAuthClient
	Secrets      *secrets.Provider

	// Usecases
	CartUC   *usecase.CartUsecase
	OrderUC  *usecase.OrderUsecase
	ReturnUC *usecase.ReturnUsecase

	MirrorQueue *usecase.MirrorQueue

	// Handler is the full middleware-wrapped route tree.
	Handler http.Handler
}

// New builds the container.
func New(ctx context.Context) (*Container, error) {
	cfg, err := appcfg.Load()
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}

	var (
		orders    orderdom.Repository
		returns   retdom.Repository
		customers custdom.Repository
		alloc     sequence.Allocator
		snapshots cartdom.SnapshotStore
		mirror    cartdom.MirrorWriter
	)

	// ----------------------------
	// Stores
	// ----------------------------
	projectID := cfg.GetFirestoreProjectID()
	if projectID == "" {
		log.Printf("[di] no GCP project configured; using in-memory stores")
		orders = memory.NewOrderRepository()
		returns = memory.NewReturnRepository()
		customers = memory.NewCustomerRepository()
		alloc = memory.NewSequenceAllocator()
		mirror = memory.NewCartMirror()
	} else {
		fs, err := firestoreinfra.NewClient(ctx, projectID, cfg.CredentialsFile())
		if err != nil {
			return nil, err
		}
		c.Firestore = fs
		orders = fsadapter.NewOrderRepositoryFS(fs.Client)
		returns = fsadapter.NewReturnRequestRepositoryFS(fs.Client)
		customers = fsadapter.NewCustomerRepositoryFS(fs.Client)
		alloc = fsadapter.NewSequenceAllocatorFS(fs.Client)
		mirror = fsadapter.NewCartMirrorFS(fs.Client)
	}

	if strings.TrimSpace(cfg.RedisAddr) != "" {
		snapshots = redisstore.NewCartSnapshotRedis(
			redisinfra.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
	} else {
		log.Printf("[di] REDIS_ADDR empty; using in-memory cart snapshots")
		snapshots = memory.NewCartSnapshotStore()
	}

	// ----------------------------
	// Identity
	// ----------------------------
	if fbProject := cfg.GetFirebaseProjectID(); fbProject != "" {
		auth, err := firebaseinfra.NewAuthClient(ctx, fbProject, cfg.CredentialsFile())
		if err != nil {
			log.Printf("[di] WARN: firebase auth unavailable: %v (bearer tokens will be rejected)", err)
		} else {
			c.FirebaseAuth = auth
		}
	} else {
		log.Printf("[di] FIREBASE_PROJECT_ID empty; bearer tokens will be rejected")
	}

	// ----------------------------
	// Notifications
	// ----------------------------
	var (
		orderNotifier  usecase.OrderNotifier
		returnNotifier usecase.ReturnNotifier
	)
	if sn := c.buildNotifier(ctx); sn != nil {
		orderNotifier, returnNotifier = sn, sn
	}

	// ----------------------------
	// Usecases
	// ----------------------------
	c.MirrorQueue = usecase.NewMirrorQueue(mirror)
	c.MirrorQueue.Start()

	c.OrderUC = usecase.NewOrderUsecase(orders, customers, alloc, orderNotifier)
	c.ReturnUC = usecase.NewReturnUsecase(returns, orders, alloc, returnNotifier, cfg.ReturnLabelBaseURL)
	c.CartUC = usecase.NewCartUsecase(snapshots, c.MirrorQueue, c.OrderUC, c.ReturnUC)

	// ----------------------------
	// HTTP
	// ----------------------------
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	store.Register(mux, store.Deps{
		Cart:     storeHandler.NewCartHandler(c.CartUC),
		Checkout: storeHandler.NewCheckoutHandler(c.CartUC),
		Order:    storeHandler.NewOrderHandler(c.OrderUC),
		Return:   storeHandler.NewReturnHandler(c.CartUC, c.OrderUC, c.ReturnUC),
	})

	admin.Register(mux, admin.Deps{
		Order:    middleware.RequireAdmin(adminHandler.NewOrderAdminHandler(c.OrderUC)),
		Return:   middleware.RequireAdmin(adminHandler.NewReturnAdminHandler(c.ReturnUC)),
		Customer: middleware.RequireAdmin(adminHandler.NewCustomerHandler(customers)),
	})

	auth := &middleware.AuthMiddleware{FirebaseAuth: c.FirebaseAuth}
	c.Handler = middleware.CORS(cfg.AllowedOrigin)(middleware.Recover(auth.Handler(mux)))

	return c, nil
}

// buildNotifier resolves the SendGrid key (env first, then Secret Manager)
// and builds the status notifier. A missing key disables emails; every
// status change still stands without them.
func (c *Container) buildNotifier(ctx context.Context) *mail.StatusNotifier {
	cfg := c.Config

	apiKey := strings.TrimSpace(cfg.SendGridAPIKey)
	if apiKey == "" && strings.TrimSpace(cfg.SendGridAPIKeySecret) != "" {
		provider, err := secrets.NewProvider(ctx)
		if err != nil {
			log.Printf("[di] WARN: secret manager unavailable: %v (emails disabled)", err)
			return nil
		}
		c.Secrets = provider

		apiKey, err = provider.AccessString(ctx, cfg.SendGridAPIKeySecret)
		if err != nil {
			log.Printf("[di] WARN: reading sendgrid key failed: %v (emails disabled)", err)
			return nil
		}
	}

	if apiKey == "" {
		log.Printf("[di] no sendgrid key configured; emails disabled")
		return nil
	}

	return mail.NewStatusNotifier(mail.NewSendGridClient(apiKey), cfg.MailFrom)
}

// Close releases external clients and flushes the mirror queue.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.MirrorQueue != nil {
		c.MirrorQueue.Close()
	}
	if c.Secrets != nil {
		if err := c.Secrets.Close(); err != nil {
			log.Printf("[di] closing secret manager: %v", err)
		}
	}
	if c.Firestore != nil {
		if err := c.Firestore.Close(); err != nil {
			log.Printf("[di] closing firestore: %v", err)
		}
	}
}
