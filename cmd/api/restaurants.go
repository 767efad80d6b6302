package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Omer-fixz/resturant/internal/service"
	"github.com/go-chi/chi"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterRestaurantRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// registerRestaurantHandler godoc
//
//	@Summary		Register restaurant
//	@Description	Creates the restaurant record for the authenticated owner
//	@Tags			restaurants
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRestaurantRequest	true	"Restaurant"
//	@Success		201		{object}	domain.Restaurant
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/restaurant/register [post]
func (app *application) registerRestaurantHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRestaurantRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	restaurant, err := app.restaurantService.Register(r.Context(), getUserID(r.Context()), req.Name, req.Email)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusCreated, restaurant); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getProfileHandler godoc
//
//	@Summary		Get restaurant profile
//	@Tags			restaurants
//	@Produce		json
//	@Param			userId	path		string	true	"Owner user ID"
//	@Success		200		{object}	domain.Restaurant
//	@Failure		404		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/restaurant/profile/{userId} [get]
func (app *application) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	restaurant, err := app.restaurantService.GetProfileByUserID(r.Context(), userID)
	if err != nil {
		app.notFoundError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, restaurant); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateProfileHandler godoc
//
//	@Summary		Update restaurant profile
//	@Tags			restaurants
//	@Accept			mpfd
//	@Produce		json
//	@Param			id	path		string	true	"Restaurant ID"
//	@Success		200	{object}	map[string]bool
//	@Failure		400	{object}	map[string]string
//	@Failure		403	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/restaurant/profile/{id} [put]
func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// paymentMethods arrives as a JSON array string, e.g. ["cash","card"]
	paymentMethods := []string{"cash"}
	if raw := r.FormValue("paymentMethods"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &paymentMethods); err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("paymentMethods must be a JSON array: %w", err))
			return
		}
	}

	logo, err := formImage(r, "logo")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if logo != nil {
		defer logo.Close()
	}

	var logoReader io.Reader
	if logo != nil {
		logoReader = logo
	}

	err = app.restaurantService.UpdateProfile(r.Context(), restaurantID, getUserID(r.Context()), service.UpdateProfileInput{
		Name:           r.FormValue("name"),
		Phone:          r.FormValue("phone"),
		Location:       r.FormValue("location"),
		PaymentMethods: paymentMethods,
	}, logoReader)
	if err != nil {
		if errors.Is(err, service.ErrNotOwner) {
			app.forbiddenResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// restaurantQRHandler godoc
//
//	@Summary		Restaurant menu QR code
//	@Description	PNG QR code linking to the restaurant's public menu
//	@Tags			restaurants
//	@Produce		png
//	@Param			id	path	string	true	"Restaurant ID"
//	@Success		200
//	@Failure		400	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Router			/restaurant/{id}/qr [get]
func (app *application) restaurantQRHandler(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	if _, err := app.restaurantService.GetByID(r.Context(), restaurantID); err != nil {
		app.notFoundError(w, r, err)
		return
	}

	menuURL := fmt.Sprintf("%s/menu/%s", app.config.clientURL, restaurantID.Hex())

	png, err := qrcode.Encode(menuURL, qrcode.Medium, 256)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
