package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/interfaces/rest"
	"github.com/shopspring/decimal"
)

type createListingRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	PricePerNight string `json:"price_per_night"`
	MaxGuests     int    `json:"max_guests"`
	Bedrooms      int    `json:"bedrooms"`
	Bathrooms     int    `json:"bathrooms"`
	Amenities     string `json:"amenities"`
}

type updateListingRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Location      *string `json:"location"`
	PricePerNight *string `json:"price_per_night"`
	MaxGuests     *int    `json:"max_guests"`
	Bedrooms      *int    `json:"bedrooms"`
	Bathrooms     *int    `json:"bathrooms"`
	Amenities     *string `json:"amenities"`
	Availability  *bool   `json:"availability"`
	IsActive      *bool   `json:"is_active"`
}

func (h *Handlers) CreateListing(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	var req createListingRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	price, err := decimal.NewFromString(req.PricePerNight)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	listing, err := h.listingService.Create(r.Context(), services.CreateListingCommand{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: price,
		MaxGuests:     req.MaxGuests,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		Amenities:     req.Amenities,
		CreatedBy:     uid,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.ToAPIListing(listing))
}

func (h *Handlers) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	detail, err := h.listingService.Get(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIListingDetail(detail))
}

func (h *Handlers) ListListings(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	filter := postgres.ListingFilter{
		Location:      r.URL.Query().Get("location"),
		OnlyAvailable: r.URL.Query().Get("available") == "true",
		Limit:         limit,
		Offset:        offset,
	}

	if raw := r.URL.Query().Get("min_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			writeInvalidInput(w, err, h.logger)
			return
		}
		filter.MinPrice = &price
	}
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			writeInvalidInput(w, err, h.logger)
			return
		}
		filter.MaxPrice = &price
	}
	if raw := r.URL.Query().Get("guests"); raw != "" {
		guests, err := atoiQuery(raw)
		if err != nil {
			writeInvalidInput(w, err, h.logger)
			return
		}
		filter.MinGuests = guests
	}

	checkInRaw := r.URL.Query().Get("check_in_date")
	checkOutRaw := r.URL.Query().Get("check_out_date")
	if checkInRaw != "" || checkOutRaw != "" {
		if checkInRaw == "" || checkOutRaw == "" {
			writeInvalidInput(w, errors.New("check_in_date and check_out_date must be given together"), h.logger)
			return
		}
		checkIn, err := time.Parse("2006-01-02", checkInRaw)
		if err != nil {
			writeInvalidInput(w, err, h.logger)
			return
		}
		checkOut, err := time.Parse("2006-01-02", checkOutRaw)
		if err != nil {
			writeInvalidInput(w, err, h.logger)
			return
		}
		if !checkOut.After(checkIn) {
			writeInvalidInput(w, errors.New("check_out_date must be after check_in_date"), h.logger)
			return
		}
		filter.CheckIn = &checkIn
		filter.CheckOut = &checkOut
	}

	listings, err := h.listingService.List(r.Context(), filter)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	apiListings := make([]rest.Listing, 0, len(listings))
	for _, l := range listings {
		apiListings = append(apiListings, rest.ToAPIListing(l))
	}
	rest.WriteJSON(w, http.StatusOK, apiListings)
}

func (h *Handlers) UpdateListing(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	var req updateListingRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalidInput(w, err, h.logger)
		return
	}

	cmd := services.UpdateListingCommand{
		ListingID:    id,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		MaxGuests:    req.MaxGuests,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Amenities:    req.Amenities,
		Availability: req.Availability,
		IsActive:     req.IsActive,
	}
	if req.PricePerNight != nil {
		price, err := decimal.NewFromString(*req.PricePerNight)
		if err != nil {
			writeInvalidInput(w, err, h.logger)
			return
		}
		cmd.PricePerNight = &price
	}

	listing, err := h.listingService.Update(r.Context(), uid, cmd)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToAPIListing(listing))
}
