package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	applog "merchantportal/internal/log"
	"merchantportal/internal/validate"
)

const (
	userBase            = "api/v1/User"
	locationBase        = "api/v1/geo/location"
	FavoritePageSize    = 12
	UserOrderPageSize   = 10
	locationHistorySize = 10
	maxCancelReason     = 500
)

var (
	maxLatitude  = decimal.NewFromInt(90)
	maxLongitude = decimal.NewFromInt(180)
)

// AccountService covers the signed-in user's own data. Every call acts on the session
// user; the backend derives the user from the token.
type AccountService struct {
	API *apiclient.Client
}

func NewAccountService(api *apiclient.Client) *AccountService { return &AccountService{API: api} }

func (s *AccountService) Profile(ctx context.Context) (domain.UserProfile, error) {
	return apiclient.Get[domain.UserProfile](ctx, s.API, userBase+"/profile")
}

func (s *AccountService) UpdateProfile(ctx context.Context, req domain.ProfileRequest) (domain.UserProfile, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := validate.Struct(req); err != nil {
		return domain.UserProfile{}, errx.Validation("")
	}
	return apiclient.Put[domain.UserProfile](ctx, s.API, userBase+"/profile", req)
}

func (s *AccountService) Preferences(ctx context.Context) (domain.UserNotificationPreferences, error) {
	return apiclient.Get[domain.UserNotificationPreferences](ctx, s.API, userBase+"/notification-preferences")
}

// UpdatePreferences saves the switches. Quiet hours must be HH:mm and are cleared when
// quiet hours are off.
func (s *AccountService) UpdatePreferences(ctx context.Context, p domain.UserNotificationPreferences) error {
	if !p.RespectQuietHours {
		p.QuietStartTime, p.QuietEndTime = nil, nil
	} else {
		for _, t := range []*string{p.QuietStartTime, p.QuietEndTime} {
			if t == nil {
				return errx.Validation("Quiet hours must be given as HH:mm")
			}
			hhmm, ok := validate.HHMM(*t)
			if !ok {
				return errx.Validation("Quiet hours must be given as HH:mm")
			}
			*t = hhmm
		}
	}
	return s.API.Exec(ctx, "PUT", userBase+"/notification-preferences", p)
}

func (s *AccountService) Addresses(ctx context.Context) ([]domain.Address, error) {
	list, err := apiclient.Get[[]domain.Address](ctx, s.API, userBase+"/addresses")
	if err != nil || list == nil {
		return []domain.Address{}, err
	}
	return list, nil
}

func (s *AccountService) AddAddress(ctx context.Context, req domain.AddressRequest) (domain.Address, error) {
	if err := checkAddress(&req); err != nil {
		return domain.Address{}, err
	}
	return apiclient.Post[domain.Address](ctx, s.API, userBase+"/addresses", req)
}

func (s *AccountService) UpdateAddress(ctx context.Context, id uuid.UUID, req domain.AddressRequest) (domain.Address, error) {
	if err := checkAddress(&req); err != nil {
		return domain.Address{}, err
	}
	return apiclient.Put[domain.Address](ctx, s.API, userBase+"/addresses/"+id.String(), req)
}

func (s *AccountService) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	return s.API.Delete(ctx, userBase+"/addresses/"+id.String())
}

func (s *AccountService) SetDefaultAddress(ctx context.Context, id uuid.UUID) error {
	return s.API.Exec(ctx, "PUT", userBase+"/addresses/"+id.String()+"/set-default", struct{}{})
}

func checkAddress(req *domain.AddressRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.FullAddress = strings.TrimSpace(req.FullAddress)
	req.City = strings.TrimSpace(req.City)
	req.District = strings.TrimSpace(req.District)
	if err := validate.Struct(req); err != nil {
		return errx.Validation("")
	}
	if req.Latitude.Abs().GreaterThan(maxLatitude) || req.Longitude.Abs().GreaterThan(maxLongitude) {
		return errx.Validation("Coordinates are out of range")
	}
	return nil
}

func (s *AccountService) Favorites(ctx context.Context, page int) (domain.PagedResult[domain.FavoriteProduct], error) {
	res, err := apiclient.Get[domain.PagedResult[domain.FavoriteProduct]](ctx, s.API,
		userBase+"/favorites?"+pageQuery(page, FavoritePageSize).Encode())
	if err != nil {
		return domain.EmptyPage[domain.FavoriteProduct](page, FavoritePageSize), err
	}
	if res.Items == nil {
		res.Items = []domain.FavoriteProduct{}
	}
	return res, nil
}

func (s *AccountService) AddFavorite(ctx context.Context, productID uuid.UUID) error {
	return s.API.Exec(ctx, "POST", userBase+"/favorites", map[string]uuid.UUID{"productId": productID})
}

func (s *AccountService) RemoveFavorite(ctx context.Context, productID uuid.UUID) error {
	return s.API.Delete(ctx, userBase+"/favorites/"+productID.String())
}

func (s *AccountService) Orders(ctx context.Context, page int) (domain.PagedResult[domain.UserOrder], error) {
	res, err := apiclient.Get[domain.PagedResult[domain.UserOrder]](ctx, s.API,
		userBase+"/orders?"+pageQuery(page, UserOrderPageSize).Encode())
	if err != nil {
		return domain.EmptyPage[domain.UserOrder](page, UserOrderPageSize), err
	}
	if res.Items == nil {
		res.Items = []domain.UserOrder{}
	}
	return res, nil
}

func (s *AccountService) Order(ctx context.Context, id uuid.UUID) (domain.UserOrder, error) {
	return apiclient.Get[domain.UserOrder](ctx, s.API, userBase+"/orders/"+id.String())
}

func (s *AccountService) CancelOrder(ctx context.Context, id uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" || len([]rune(reason)) > maxCancelReason {
		return errx.Validation("A cancellation reason is required")
	}
	return s.API.Exec(ctx, "POST", userBase+"/orders/"+id.String()+"/cancel",
		domain.CancelOrderRequest{OrderID: id, Reason: reason})
}

func (s *AccountService) Reorder(ctx context.Context, id uuid.UUID) error {
	return s.API.Exec(ctx, "POST", userBase+"/orders/"+id.String()+"/reorder", struct{}{})
}

func (s *AccountService) Locations(ctx context.Context) ([]domain.SavedLocation, error) {
	res, err := apiclient.Get[domain.PagedResult[domain.SavedLocation]](ctx, s.API,
		locationBase+"/history?"+pageQuery(1, locationHistorySize).Encode())
	if err != nil || res.Items == nil {
		return []domain.SavedLocation{}, err
	}
	return res.Items, nil
}

func (s *AccountService) SaveLocation(ctx context.Context, req domain.SaveLocationRequest) error {
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return errx.Validation("Coordinates are out of range")
	}
	req.Address = strings.TrimSpace(req.Address)
	return s.API.Exec(ctx, "POST", locationBase, req)
}

// Page loads every account panel at once. Only the profile is required; the other
// panels render empty when their call fails.
func (s *AccountService) Page(ctx context.Context, ordersPage, favoritesPage int) (domain.AccountView, error) {
	view := domain.AccountView{
		Addresses: []domain.Address{},
		Orders:    domain.EmptyPage[domain.UserOrder](ordersPage, UserOrderPageSize),
		Favorites: domain.EmptyPage[domain.FavoriteProduct](favoritesPage, FavoritePageSize),
		Locations: []domain.SavedLocation{},
	}
	var profileErr error
	optional := func(panel string, err error) {
		if err != nil {
			applog.Warn("account."+panel+".fail", err, nil)
		}
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.Profile(gctx)
		if err != nil {
			profileErr = err
			return nil
		}
		view.Profile = &p
		return nil
	})
	g.Go(func() error {
		p, err := s.Preferences(gctx)
		if err == nil {
			view.Preferences = p
		}
		optional("preferences", err)
		return nil
	})
	g.Go(func() error {
		list, err := s.Addresses(gctx)
		view.Addresses = list
		optional("addresses", err)
		return nil
	})
	g.Go(func() error {
		res, err := s.Orders(gctx, ordersPage)
		view.Orders = res
		optional("orders", err)
		return nil
	})
	g.Go(func() error {
		res, err := s.Favorites(gctx, favoritesPage)
		view.Favorites = res
		optional("favorites", err)
		return nil
	})
	g.Go(func() error {
		list, err := s.Locations(gctx)
		view.Locations = list
		optional("locations", err)
		return nil
	})
	_ = g.Wait()
	return view, profileErr
}
