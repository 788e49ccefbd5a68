package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/croftbar/member-portal/internal/account/service"
	commonhttp "github.com/croftbar/member-portal/internal/common/http"
	"github.com/croftbar/member-portal/internal/common/logger"
	"github.com/croftbar/member-portal/internal/session"
)

const (
	noticeDuplicateUser      = "A user already exists with that email or username."
	noticeRegistered         = "Registration successful, please login."
	noticeLoggedIn           = "Logged in successfully."
	noticeInvalidCredentials = "Invalid username or password."
	noticeMissingFields      = "All fields are required."
)

type Handler struct {
	accounts *service.AccountService
	sessions *session.Manager
	renderer *Renderer
	log      *logger.Logger
}

func NewHandler(
	accounts *service.AccountService,
	sessions *session.Manager,
	renderer *Renderer,
	log *logger.Logger,
	timeout time.Duration,
) http.Handler {
	h := &Handler{
		accounts: accounts,
		sessions: sessions,
		renderer: renderer,
		log:      log,
	}

	withTimeout := commonhttp.WithTimeout(timeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/", h.index)
	mux.HandleFunc("/register", withTimeout(h.register))
	mux.HandleFunc("/login", withTimeout(h.login))
	mux.HandleFunc("/logout", commonhttp.RequireMethod(http.MethodGet)(
		sessions.RequireAuthenticated(withTimeout(h.logout)),
	))
	return mux
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	// ServeMux routes every unregistered path to "/"; the landing page only
	// answers for the root itself.
	if r.URL.Path != "/" {
		commonhttp.WriteErrorPage(w, http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		commonhttp.WriteErrorPage(w, http.StatusMethodNotAllowed)
		return
	}

	h.renderPage(w, r, "index", "Home", popFlash(w, r))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.renderPage(w, r, "register", "Register", popFlash(w, r))
	case http.MethodPost:
		h.registerSubmit(w, r)
	default:
		commonhttp.WriteErrorPage(w, http.StatusMethodNotAllowed)
	}
}

func (h *Handler) registerSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.log.Warnf("register failed: malformed form: %v", err)
		commonhttp.WriteErrorPage(w, http.StatusBadRequest)
		return
	}

	_, err := h.accounts.Register(r.Context(), service.RegisterInput{
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Email:     r.PostFormValue("email"),
		Username:  r.PostFormValue("username"),
		Password:  r.PostFormValue("password"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUser):
			setFlash(w, noticeDuplicateUser)
			http.Redirect(w, r, "/register", http.StatusFound)
		case errors.Is(err, service.ErrValidation):
			setFlash(w, noticeMissingFields)
			http.Redirect(w, r, "/register", http.StatusFound)
		default:
			h.log.Errorf("register failed: %v", err)
			commonhttp.WriteErrorPage(w, http.StatusInternalServerError)
		}
		return
	}

	setFlash(w, noticeRegistered)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.renderPage(w, r, "login", "Log in", popFlash(w, r))
	case http.MethodPost:
		h.loginSubmit(w, r)
	default:
		commonhttp.WriteErrorPage(w, http.StatusMethodNotAllowed)
	}
}

func (h *Handler) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.log.Warnf("login failed: malformed form: %v", err)
		commonhttp.WriteErrorPage(w, http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), service.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Re-rendered directly, not via redirect, so the notice lands on
			// the form the user just submitted.
			h.renderLoginWithNotice(w, r, noticeInvalidCredentials)
			return
		}
		h.log.Errorf("login failed: %v", err)
		commonhttp.WriteErrorPage(w, http.StatusInternalServerError)
		return
	}

	if err := h.sessions.Issue(w, user); err != nil {
		h.log.Errorf("login failed: session issue error: %v", err)
		commonhttp.WriteErrorPage(w, http.StatusInternalServerError)
		return
	}

	setFlash(w, noticeLoggedIn)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, name, title, flash string) {
	data := PageData{
		Title: title,
		Flash: flash,
	}
	if user, ok := h.sessions.CurrentUser(r); ok {
		data.User = &user
	}

	if err := h.renderer.Render(w, name, data); err != nil {
		h.log.Errorf("failed to render %s: %v", name, err)
		commonhttp.WriteErrorPage(w, http.StatusInternalServerError)
	}
}

func (h *Handler) renderLoginWithNotice(w http.ResponseWriter, r *http.Request, notice string) {
	data := PageData{
		Title: "Log in",
		Flash: notice,
	}
	if user, ok := h.sessions.CurrentUser(r); ok {
		data.User = &user
	}

	if err := h.renderer.Render(w, "login", data); err != nil {
		h.log.Errorf("failed to render login: %v", err)
		commonhttp.WriteErrorPage(w, http.StatusInternalServerError)
	}
}
