package cognitoclient

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// AuthCreate represents the response of Cognito sign in approval.
type AuthCreate struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int32  `json:"expires_in"`
}

type Client struct {
	cognitoClient *cognito.Client
	appClientID   string
}

func NewClient(ctx context.Context, region, appClientID string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &Client{
		cognitoClient: cognito.NewFromConfig(cfg),
		appClientID:   appClientID,
	}, nil
}

// SignIn runs the USER_PASSWORD_AUTH flow. Accounts with a pending challenge
// (new password, MFA) cannot finish here and get an error.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthCreate, error) {
	result, err := c.cognitoClient.InitiateAuth(ctx, &cognito.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
		ClientId: aws.String(c.appClientID),
	})
	if err != nil {
		return nil, err
	}

	auth := result.AuthenticationResult
	if auth == nil {
		return nil, errors.New("cognito requested challenge " + string(result.ChallengeName))
	}

	return &AuthCreate{
		IDToken:      aws.ToString(auth.IdToken),
		AccessToken:  aws.ToString(auth.AccessToken),
		RefreshToken: aws.ToString(auth.RefreshToken),
		ExpiresIn:    auth.ExpiresIn,
	}, nil
}

// GlobalSignOut invalidates every refresh token of the user, on all devices.
func (c *Client) GlobalSignOut(ctx context.Context, accessToken string) error {
	_, err := c.cognitoClient.GlobalSignOut(ctx, &cognito.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	return err
}
