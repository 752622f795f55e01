package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"swgoh-tracker/internal/config"
	"swgoh-tracker/internal/constants"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"
)

type SwgohClient struct {
	baseURL      string
	statsCalcURL string
	username     string
	password     string
	clientID     string
	clientSecret string
	client       *fasthttp.Client
	logger       zerolog.Logger
	now          func() time.Time

	// token is shared by every worker using this client. Sign-ins are
	// collapsed through authGroup so concurrent callers log in once.
	tokenMu   sync.RWMutex
	token     string
	expiresAt time.Time
	authGroup singleflight.Group
}

func NewSwgohClient(cfg *config.Config, logger zerolog.Logger) *SwgohClient {
	return &SwgohClient{
		baseURL:      cfg.SwgohBaseURL,
		statsCalcURL: cfg.StatsCalcURL,
		username:     cfg.SwgohUsername,
		password:     cfg.SwgohPassword,
		clientID:     cfg.SwgohClientID,
		clientSecret: cfg.SwgohClientSecret,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
		now:    time.Now,
	}
}

func (c *SwgohClient) cachedToken() (string, bool) {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()

	if c.token == "" {
		return "", false
	}
	// refresh ahead of expiry so in-flight requests never carry a dead token
	if !c.now().Add(constants.TokenRefreshMargin).Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

func (c *SwgohClient) invalidateToken() {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}

func (c *SwgohClient) accessToken(ctx context.Context) (string, error) {
	if token, ok := c.cachedToken(); ok {
		return token, nil
	}

	v, err, _ := c.authGroup.Do("token", func() (any, error) {
		if token, ok := c.cachedToken(); ok {
			return token, nil
		}
		return c.authenticate(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *SwgohClient) authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)
	form.Set("grant_type", "password")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	issuedAt := c.now()
	status, body, err := c.do(ctx, c.baseURL+"/auth/signin", "application/x-www-form-urlencoded", []byte(form.Encode()), "")
	if err != nil {
		return "", &AuthenticationError{Err: err}
	}
	if status != fasthttp.StatusOK {
		return "", &AuthenticationError{StatusCode: status}
	}

	var auth AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", &AuthenticationError{StatusCode: status, Err: err}
	}
	if auth.AccessToken == "" || auth.ExpiresIn <= 0 {
		return "", &AuthenticationError{StatusCode: status, Err: errors.New("missing access_token or expires_in")}
	}

	c.tokenMu.Lock()
	c.token = auth.AccessToken
	c.expiresAt = issuedAt.Add(time.Duration(auth.ExpiresIn) * time.Second)
	c.tokenMu.Unlock()

	c.logger.Debug().Int64("expires_in", auth.ExpiresIn).Msg("swgoh access token refreshed")
	return auth.AccessToken, nil
}

func (c *SwgohClient) do(ctx context.Context, uri, contentType string, body []byte, bearer string) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(contentType)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.SetBody(body)

	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return 0, nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return 0, nil, err
		}
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return resp.StatusCode(), out, nil
}

// postData sends an authenticated JSON request. A 404 returns found=false with
// no error.
func (c *SwgohClient) postData(ctx context.Context, endpoint string, payload any) (body []byte, found bool, err error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, false, err
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	status, body, err := c.do(ctx, c.baseURL+endpoint, "application/json", reqBody, token)
	if err != nil {
		return nil, false, &APIError{Endpoint: endpoint, Err: err}
	}

	switch {
	case status == fasthttp.StatusNotFound:
		return nil, false, nil
	case status == fasthttp.StatusUnauthorized:
		c.invalidateToken()
		return nil, false, &APIError{Endpoint: endpoint, StatusCode: status}
	case status < 200 || status > 299:
		return nil, false, &APIError{Endpoint: endpoint, StatusCode: status}
	}
	return body, true, nil
}

func doRequest[T any](ctx context.Context, c *SwgohClient, endpoint string, payload any) (*T, error) {
	body, found, err := c.postData(ctx, endpoint, payload)
	if err != nil || !found {
		return nil, err
	}
	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &APIError{Endpoint: endpoint, Err: err}
	}
	return &result, nil
}

func dataRequest[T any](ctx context.Context, c *SwgohClient, payload map[string]any) ([]T, error) {
	res, err := doRequest[[]T](ctx, c, "/swgoh/data", payload)
	if err != nil || res == nil {
		return nil, err
	}
	return *res, nil
}

func (c *SwgohClient) GetUnitList(ctx context.Context) ([]UnitData, error) {
	return dataRequest[UnitData](ctx, c, map[string]any{
		"collection": "unitsList",
		"language":   "eng_us",
		"match": map[string]any{
			"rarity":         7,
			"obtainable":     true,
			"obtainableTime": 0,
			"combatType":     constants.CharacterCombat,
		},
		"enums": true,
	})
}

func (c *SwgohClient) GetSkillList(ctx context.Context) ([]SkillData, error) {
	return dataRequest[SkillData](ctx, c, map[string]any{
		"collection": "skillList",
		"language":   "eng_us",
		"project": map[string]bool{
			"id":               true,
			"abilityReference": true,
			"skillType":        true,
			"isZeta":           true,
		},
	})
}

func (c *SwgohClient) GetAbilityList(ctx context.Context) ([]AbilityData, error) {
	return dataRequest[AbilityData](ctx, c, map[string]any{
		"collection": "abilityList",
		"language":   "eng_us",
		"enums":      true,
		"project": map[string]bool{
			"id":          true,
			"nameKey":     true,
			"abilityType": true,
		},
	})
}

func (c *SwgohClient) GetGearList(ctx context.Context) ([]GearData, error) {
	return dataRequest[GearData](ctx, c, map[string]any{
		"collection": "equipmentList",
		"language":   "eng_us",
		"enums":      true,
		"project": map[string]bool{
			"nameKey":        true,
			"id":             true,
			"equipmentStat":  true,
			"tier":           true,
			"type":           true,
			"requiredRarity": true,
			"requiredLevel":  true,
		},
	})
}

func (c *SwgohClient) GetCategoryList(ctx context.Context) ([]CategoryData, error) {
	return dataRequest[CategoryData](ctx, c, map[string]any{
		"collection": "categoryList",
		"language":   "eng_us",
		"match":      map[string]bool{"visible": true},
		"project": map[string]bool{
			"id":      true,
			"descKey": true,
		},
		"enums": true,
	})
}

// GetGuild returns the guild containing allyCode, or nil when upstream does
// not know it.
func (c *SwgohClient) GetGuild(ctx context.Context, allyCode int) (*GuildData, error) {
	guilds, err := doRequest[[]GuildData](ctx, c, "/swgoh/guild", map[string]any{
		"allycodes": []int{allyCode},
		"language":  "eng_us",
		"enums":     true,
		"project": map[string]any{
			"id":   true,
			"name": true,
			"gp":   true,
			"roster": map[string]bool{
				"gpChar":   true,
				"gpShip":   true,
				"gp":       true,
				"id":       true,
				"level":    true,
				"allyCode": true,
				"name":     true,
			},
		},
	})
	if err != nil || guilds == nil || len(*guilds) == 0 {
		return nil, err
	}
	return &(*guilds)[0], nil
}

// GetPlayers fetches full player records for allyCodes in one request. Records
// come back in upstream order, which need not match allyCodes. When a stats
// calculator is configured the raw payload is passed through it first.
func (c *SwgohClient) GetPlayers(ctx context.Context, allyCodes []int) ([]PlayerData, error) {
	const endpoint = "/swgoh/player"
	body, found, err := c.postData(ctx, endpoint, map[string]any{
		"allycodes": allyCodes,
		"language":  "eng_us",
		"enums":     false,
		"project": map[string]bool{
			"roster":       true,
			"updated":      true,
			"id":           true,
			"guildRefId":   true,
			"allyCode":     true,
			"level":        true,
			"stats":        true,
			"lastActivity": true,
			"name":         true,
		},
	})
	if err != nil || !found {
		return nil, err
	}

	if c.statsCalcURL != "" {
		if body, found, err = c.calculateStats(ctx, body); err != nil || !found {
			return nil, err
		}
	}

	var players []PlayerData
	if err := json.Unmarshal(body, &players); err != nil {
		return nil, &APIError{Endpoint: endpoint, Err: err}
	}
	return players, nil
}

func (c *SwgohClient) calculateStats(ctx context.Context, raw []byte) ([]byte, bool, error) {
	const endpoint = "stats-calc"
	uri := c.statsCalcURL + "?" + url.Values{"flags": {"gameStyle"}, "language": {"eng_us"}}.Encode()

	status, body, err := c.do(ctx, uri, "application/json", raw, "")
	if err != nil {
		return nil, false, &APIError{Endpoint: endpoint, Err: err}
	}
	if status == fasthttp.StatusNotFound {
		return nil, false, nil
	}
	if status != fasthttp.StatusOK {
		return nil, false, &APIError{Endpoint: endpoint, StatusCode: status}
	}
	return body, true, nil
}
