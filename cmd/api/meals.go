package main

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Omer-fixz/resturant/internal/domain"
	"github.com/Omer-fixz/resturant/internal/service"
	"github.com/go-chi/chi"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxUploadSize = 10 << 20 // 10mb

// formImage returns the uploaded file for the field, or nil when the
// client sent none.
func formImage(r *http.Request, field string) (multipart.File, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}

	return file, nil
}

// getMenuHandler godoc
//
//	@Summary		Get restaurant menu
//	@Description	All meals of a restaurant
//	@Tags			menu
//	@Produce		json
//	@Param			restaurantId	path		string	true	"Restaurant ID"
//	@Success		200				{array}		domain.Meal
//	@Failure		500				{object}	map[string]string
//	@Router			/menu/{restaurantId} [get]
func (app *application) getMenuHandler(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantId")
	if restaurantID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	meals, err := app.mealService.GetMenu(r.Context(), restaurantID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, meals); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createMealHandler godoc
//
//	@Summary		Add meal
//	@Description	Adds a meal to the caller's menu, with an optional image
//	@Tags			menu
//	@Accept			mpfd
//	@Produce		json
//	@Param			name		formData	string	true	"Meal name"
//	@Param			price		formData	number	true	"Price"
//	@Param			description	formData	string	false	"Description"
//	@Param			image		formData	file	false	"Meal image"
//	@Success		200			{object}	map[string]interface{}
//	@Failure		400			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/meal [post]
func (app *application) createMealHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	restaurantID, err := app.restaurantService.ResolveOwnedID(r.Context(), getUserID(r.Context()))
	if err != nil {
		app.forbiddenResponse(w, r, err)
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("price must be a number"))
		return
	}

	image, err := formImage(r, "image")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if image != nil {
		defer image.Close()
	}

	meal := &domain.Meal{
		RestaurantID: restaurantID,
		Name:         r.FormValue("name"),
		Price:        price,
		Description:  r.FormValue("description"),
	}

	var imageReader io.Reader
	if image != nil {
		imageReader = image
	}

	if err := app.mealService.CreateMeal(r.Context(), meal, imageReader); err != nil {
		if errors.Is(err, service.ErrInvalidMeal) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"mealId":  meal.ID.Hex(),
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateMealHandler godoc
//
//	@Summary		Edit meal
//	@Tags			menu
//	@Accept			mpfd
//	@Produce		json
//	@Param			id	path		string	true	"Meal ID"
//	@Success		200	{object}	map[string]bool
//	@Failure		400	{object}	map[string]string
//	@Failure		403	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/meal/{id} [put]
func (app *application) updateMealHandler(w http.ResponseWriter, r *http.Request) {
	mealID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	callerRestaurantID, err := app.restaurantService.ResolveOwnedID(r.Context(), getUserID(r.Context()))
	if err != nil {
		app.forbiddenResponse(w, r, err)
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("price must be a number"))
		return
	}

	image, err := formImage(r, "image")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if image != nil {
		defer image.Close()
	}

	var imageReader io.Reader
	if image != nil {
		imageReader = image
	}

	err = app.mealService.UpdateMeal(r.Context(), mealID, callerRestaurantID, service.UpdateMealInput{
		Name:        r.FormValue("name"),
		Price:       price,
		Description: r.FormValue("description"),
	}, imageReader)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMeal):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, service.ErrForbidden):
			app.forbiddenResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteMealHandler godoc
//
//	@Summary		Delete meal
//	@Tags			menu
//	@Produce		json
//	@Param			id	path		string	true	"Meal ID"
//	@Success		200	{object}	map[string]bool
//	@Failure		400	{object}	map[string]string
//	@Failure		403	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/meal/{id} [delete]
func (app *application) deleteMealHandler(w http.ResponseWriter, r *http.Request) {
	mealID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	callerRestaurantID, err := app.restaurantService.ResolveOwnedID(r.Context(), getUserID(r.Context()))
	if err != nil {
		app.forbiddenResponse(w, r, err)
		return
	}

	if err := app.mealService.DeleteMeal(r.Context(), mealID, callerRestaurantID); err != nil {
		if errors.Is(err, service.ErrForbidden) {
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

type ToggleMealRequest struct {
	Available bool `json:"available"`
}

// toggleMealHandler godoc
//
//	@Summary		Toggle meal availability
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Meal ID"
//	@Param			request	body		ToggleMealRequest	true	"Availability"
//	@Success		200		{object}	map[string]bool
//	@Failure		400		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/meal/{id}/toggle [patch]
func (app *application) toggleMealHandler(w http.ResponseWriter, r *http.Request) {
	mealID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	var req ToggleMealRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	callerRestaurantID, err := app.restaurantService.ResolveOwnedID(r.Context(), getUserID(r.Context()))
	if err != nil {
		app.forbiddenResponse(w, r, err)
		return
	}

	if err := app.mealService.ToggleAvailability(r.Context(), mealID, callerRestaurantID, req.Available); err != nil {
		if errors.Is(err, service.ErrForbidden) {
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

type BulkPriceUpdateRequest struct {
	RestaurantID string   `json:"restaurantId" validate:"required"`
	Percentage   *float64 `json:"percentage" validate:"required"`
}

// bulkPriceUpdateHandler godoc
//
//	@Summary		Bulk price update
//	@Description	Adjusts every meal price of the caller's restaurant by a percentage
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			request	body		BulkPriceUpdateRequest	true	"Adjustment"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/bulk-price-update [post]
func (app *application) bulkPriceUpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req BulkPriceUpdateRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	callerRestaurantID, err := app.restaurantService.ResolveOwnedID(r.Context(), getUserID(r.Context()))
	if err != nil || callerRestaurantID != req.RestaurantID {
		app.forbiddenResponse(w, r, errors.New("restaurant does not belong to caller"))
		return
	}

	updated, err := app.mealService.BulkPriceUpdate(r.Context(), req.RestaurantID, *req.Percentage)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]interface{}{
		"success":      true,
		"updatedCount": updated,
	}

	if err := app.jsonRespone(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
