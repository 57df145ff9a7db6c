package configuration

type Config struct {
	ClientID       string `yaml:"client_id" mapstructure:"client_id"`             // OAuth2 desktop client ID
	ClientSecret   string `yaml:"client_secret" mapstructure:"client_secret"`     // OAuth2 desktop client secret
	Scope          string `yaml:"scope" mapstructure:"scope"`                     // Space separated scopes requested at sign-in
	AuthURL        string `yaml:"auth_url" mapstructure:"auth_url"`               // Provider consent page
	TokenURL       string `yaml:"token_url" mapstructure:"token_url"`             // Provider token endpoint
	Issuer         string `yaml:"issuer" mapstructure:"issuer"`                   // OIDC issuer; when set, auth_url and token_url are discovered
	TasksURL       string `yaml:"tasks_url" mapstructure:"tasks_url"`             // Google Tasks API base URL
	KeyringService string `yaml:"keyring_service" mapstructure:"keyring_service"` // OS credential store service name
	KeyringAccount string `yaml:"keyring_account" mapstructure:"keyring_account"` // OS credential store account name
}
