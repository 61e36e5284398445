package http

import (
	"net/http"

	"securestore-backend/internal/security"
	"securestore-backend/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter wires the API surface. Auth endpoints are public; everything else
// sits behind the access-token middleware.
func NewRouter(
	tm security.TokenManager,
	authSvc service.AuthService,
	userSvc service.UserService,
	orgSvc service.OrganizationService,
	workflow service.RequestWorkflow,
	noteSvc service.NotificationService,
) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	authHandler := NewAuthHandler(authSvc)
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(NewAuthMiddleware(tm).RequireAccess)

	userHandler := NewUserHandler(userSvc)
	protected.HandleFunc("/users/me", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/users/me", userHandler.UpdateProfile).Methods("PUT")

	requestHandler := NewRequestHandler(workflow)
	protected.HandleFunc("/requests", requestHandler.Create).Methods("POST")
	protected.HandleFunc("/requests", requestHandler.List).Methods("GET")
	protected.HandleFunc("/requests/my-requests", requestHandler.ListMine).Methods("GET")
	protected.HandleFunc("/requests/{id:[0-9]+}/action", requestHandler.Act).Methods("POST")

	orgHandler := NewOrgHandler(orgSvc)
	protected.HandleFunc("/orgs", orgHandler.Create).Methods("POST")
	protected.HandleFunc("/orgs", orgHandler.List).Methods("GET")
	protected.HandleFunc("/orgs/{id:[0-9]+}", orgHandler.Get).Methods("GET")
	protected.HandleFunc("/orgs/{id:[0-9]+}", orgHandler.Update).Methods("PUT")
	protected.HandleFunc("/orgs/{id:[0-9]+}", orgHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/orgs/{id:[0-9]+}/children", orgHandler.ListChildren).Methods("GET")
	protected.HandleFunc("/orgs/{id:[0-9]+}/join-code", orgHandler.GenerateJoinCode).Methods("POST")

	noteHandler := NewNotificationHandler(noteSvc)
	protected.HandleFunc("/notifications", noteHandler.List).Methods("GET")
	protected.HandleFunc("/notifications/{id:[0-9]+}/read", noteHandler.MarkAsRead).Methods("POST")

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	return router
}
