// Package providers maps OAuth provider names to their endpoints and turns
// consumer credentials into golang.org/x/oauth2 configurations.
//
// Built-in endpoints:
//   - google, github: from golang.org/x/oauth2/google and golang.org/x/oauth2/github
//   - facebook, gitlab, bitbucket, slack, linkedin, amazon, spotify, twitch,
//     yahoo, yandex, zoom: from golang.org/x/oauth2/endpoints
//
// Names are matched case-insensitively. Other providers need an explicit
// Config.Endpoint.
//
// Example usage:
//
//	cfg, err := providers.NewOAuth2Config("Google", &providers.Config{
//	    ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
//	    ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
//	    RedirectURL:  "http://localhost:8080/oauth/callback",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	url := cfg.AuthCodeURL(state)
//
// When no scopes are given, Google defaults to "openid", "email" and
// "profile", and GitHub to "read:user" and "user:email".
package providers
