package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jonh-steve/RunOut-Biliard-sub002/handler"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/address"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/blog"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/cart"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/contact"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/coupon"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/newsletter"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/notification"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/order"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/product"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/review"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/user"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/clientip"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/httpserver"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/jwt"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/logger"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/metrics"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/ratelimiter"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/requestid"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
)

// MsgTooManyRequests answers a throttled request.
const MsgTooManyRequests = "Bạn thao tác quá nhanh, vui lòng thử lại sau"

// Deps are the collaborators of the HTTP pipeline.
type Deps struct {
	Log          *slog.Logger
	Metrics      *metrics.Metrics
	Tokens       *jwt.Service
	Denylist     jwt.Denylist
	Stores       Stores
	MaxBodyBytes int64
	// Limiter throttles the routes marked Throttled; nil disables throttling.
	Limiter *ratelimiter.Bucket
	// Checks back /healthz.
	Checks []httpserver.Check
	// UserOptions are appended to the user service options.
	UserOptions []user.Option
}

// Router is the assembled HTTP pipeline.
type Router struct {
	http.Handler
	Users  *user.Service
	Groups []route.Group
}

// NewRouter builds every module and mounts it behind the global middleware:
// request id, client IP, request logging, metrics, the terminal failure
// handler and identity decoding, in that order.
func NewRouter(d Deps) *Router {
	if d.Log == nil {
		d.Log = slog.New(slog.DiscardHandler)
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Denylist == nil {
		d.Denylist = jwt.NewMemoryDenylist()
	}
	if d.MaxBodyBytes <= 0 {
		d.MaxBodyBytes = handler.DefaultMaxBodyBytes
	}

	s := d.Stores
	users := user.New(s.Users, d.Tokens, append([]user.Option{
		user.WithDenylist(d.Denylist),
		user.WithLogger(d.Log),
	}, d.UserOptions...)...)
	notifications := notification.New(s.Notifications)
	coupons := coupon.New(s.Coupons)

	groups := []route.Group{
		users.Routes(),
		product.New(s.Products).Routes(),
		order.New(s.Orders, s.Products,
			order.WithCoupons(coupons),
			order.WithNotifier(notifications),
			order.WithLogger(d.Log),
		).Routes(),
		cart.New(s.Carts, s.Products).Routes(),
		review.New(s.Reviews, s.Products, d.Log).Routes(),
		address.New(s.Addresses).Routes(),
		contact.Routes(s.Contacts),
		notifications.Routes(),
		newsletter.New(s.Subscribers).Routes(),
		coupons.Routes(),
		blog.New(s.Posts).Routes(),
	}

	m := d.Metrics
	opts := []route.Option{
		route.WithGateOptions(rbac.WithErrorWriter(func(w http.ResponseWriter, r *http.Request, err error) {
			m.GateRejected(rbac.StatusOf(err))
			handler.WriteError(w, r, err)
		})),
		route.WithValidateOptions(
			handler.WithMaxBodyBytes(d.MaxBodyBytes),
			handler.WithRejectHook(func(_ *http.Request, status int) {
				m.GateRejected(status)
			}),
		),
		route.WithNotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.GateRejected(http.StatusNotFound)
			handler.NotFound()(w, r)
		})),
	}
	if d.Limiter != nil {
		opts = append(opts, route.WithThrottle(ratelimiter.Middleware(d.Limiter,
			ratelimiter.WithErrorWriter(func(w http.ResponseWriter, r *http.Request, err error) {
				status := ratelimiter.StatusOf(err)
				m.GateRejected(status)
				if status == http.StatusTooManyRequests {
					handler.WriteError(w, r, handler.NewHTTPError(status, MsgTooManyRequests))
					return
				}
				d.Log.ErrorContext(r.Context(), "rate limiter unavailable", logger.Error(err))
				handler.WriteError(w, r, err)
			}),
		)))
	}
	composer := route.New(opts...)

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware,
		logger.Middleware(d.Log),
		m.Middleware,
		handler.Recoverer(d.Log),
		jwt.Identify(d.Tokens, jwt.WithDenylist(d.Denylist)),
	)
	r.Get("/healthz", httpserver.HealthHandler(d.Log, d.Checks...))
	r.Handle("/metrics", m.Handler())
	composer.Mount(r, groups...)

	return &Router{Handler: r, Users: users, Groups: groups}
}
