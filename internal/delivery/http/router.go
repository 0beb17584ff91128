package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventboard/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	events *controllers.EventController,
	requests *controllers.RequestController,
	categories *controllers.CategoryController,
	users *controllers.UserController,
	compilations *controllers.CompilationController,
	comments *controllers.CommentController,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Private: event lifecycle for the initiator
	mux.HandleFunc("POST /users/{userID}/events", events.CreateEvent)
	mux.HandleFunc("GET /users/{userID}/events", events.GetUserEvents)
	mux.HandleFunc("GET /users/{userID}/events/{eventID}", events.GetUserEvent)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}", events.UpdateUserEvent)

	// Private: participation requests
	mux.HandleFunc("GET /users/{userID}/requests", requests.GetUserRequests)
	mux.HandleFunc("POST /users/{userID}/requests", requests.AddRequest)
	mux.HandleFunc("PATCH /users/{userID}/requests/{requestID}/cancel", requests.CancelRequest)
	mux.HandleFunc("GET /users/{userID}/events/{eventID}/requests", requests.GetEventRequests)
	mux.HandleFunc("PATCH /users/{userID}/events/{eventID}/requests", requests.UpdateEventRequests)

	// Private: comments
	mux.HandleFunc("POST /users/{userID}/events/{eventID}/comments", comments.AddComment)
	mux.HandleFunc("PATCH /users/{userID}/comments/{commentID}", comments.EditComment)
	mux.HandleFunc("DELETE /users/{userID}/comments/{commentID}", comments.DeleteComment)

	// Admin
	mux.HandleFunc("GET /admin/events", events.SearchAdminEvents)
	mux.HandleFunc("PATCH /admin/events/{eventID}", events.UpdateAdminEvent)
	mux.HandleFunc("POST /admin/categories", categories.CreateCategory)
	mux.HandleFunc("PATCH /admin/categories/{catID}", categories.UpdateCategory)
	mux.HandleFunc("DELETE /admin/categories/{catID}", categories.DeleteCategory)
	mux.HandleFunc("POST /admin/users", users.CreateUser)
	mux.HandleFunc("GET /admin/users", users.GetUsers)
	mux.HandleFunc("DELETE /admin/users/{userID}", users.DeleteUser)
	mux.HandleFunc("POST /admin/compilations", compilations.CreateCompilation)
	mux.HandleFunc("PATCH /admin/compilations/{compID}", compilations.UpdateCompilation)
	mux.HandleFunc("DELETE /admin/compilations/{compID}", compilations.DeleteCompilation)
	mux.HandleFunc("DELETE /admin/comments/{commentID}", comments.DeleteCommentAdmin)

	// Public
	mux.HandleFunc("GET /events", events.SearchPublicEvents)
	mux.HandleFunc("GET /events/{eventID}", events.GetPublicEvent)
	mux.HandleFunc("GET /events/{eventID}/comments", comments.GetEventComments)
	mux.HandleFunc("GET /categories", categories.GetCategories)
	mux.HandleFunc("GET /categories/{catID}", categories.GetCategory)
	mux.HandleFunc("GET /compilations", compilations.GetCompilations)
	mux.HandleFunc("GET /compilations/{compID}", compilations.GetCompilation)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
