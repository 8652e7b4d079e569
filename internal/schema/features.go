package schema

// TestDataSeeding 测试数据填充
type TestDataSeeding struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	RecordCount int    `json:"recordCount" yaml:"recordCount"`
	Locale      string `json:"locale" yaml:"locale"`
	CustomSeed  bool   `json:"customSeed" yaml:"customSeed"`
}

// APIDocumentation 接口文档
type APIDocumentation struct {
	Enabled          bool   `json:"enabled" yaml:"enabled"`
	Title            string `json:"title" yaml:"title"`
	Description      string `json:"description" yaml:"description"`
	Version          string `json:"version" yaml:"version"`
	IncludeSwaggerUI bool   `json:"includeSwaggerUI" yaml:"includeSwaggerUI"`
}

// EmailTemplates 邮件模板开关
type EmailTemplates struct {
	Verification  bool `json:"verification" yaml:"verification"`
	PasswordReset bool `json:"passwordReset" yaml:"passwordReset"`
	Welcome       bool `json:"welcome" yaml:"welcome"`
}

// EmailAuth 邮箱认证
type EmailAuth struct {
	Enabled   bool           `json:"enabled" yaml:"enabled"`
	Provider  string         `json:"provider" yaml:"provider"`
	Templates EmailTemplates `json:"templates" yaml:"templates"`
}

// OAuthProviders 第三方登录
type OAuthProviders struct {
	Enabled      bool              `json:"enabled" yaml:"enabled"`
	Providers    []string          `json:"providers" yaml:"providers"`
	CallbackURLs map[string]string `json:"callbackUrls" yaml:"callbackUrls"`
}

// PaymentIntegration 支付集成
type PaymentIntegration struct {
	Enabled  bool     `json:"enabled" yaml:"enabled"`
	Provider string   `json:"provider" yaml:"provider"`
	Features []string `json:"features" yaml:"features"`
}

// ProjectFeatures 项目功能开关
type ProjectFeatures struct {
	TestDataSeeding    TestDataSeeding    `json:"testDataSeeding" yaml:"testDataSeeding"`
	APIDocumentation   APIDocumentation   `json:"apiDocumentation" yaml:"apiDocumentation"`
	EmailAuth          EmailAuth          `json:"emailAuth" yaml:"emailAuth"`
	OAuthProviders     OAuthProviders     `json:"oauthProviders" yaml:"oauthProviders"`
	PaymentIntegration PaymentIntegration `json:"paymentIntegration" yaml:"paymentIntegration"`
}

// DefaultFeatures 新会话的默认功能配置
func DefaultFeatures() ProjectFeatures {
	return ProjectFeatures{
		TestDataSeeding: TestDataSeeding{
			RecordCount: 10,
			Locale:      "en",
		},
		APIDocumentation: APIDocumentation{
			Version:          "1.0.0",
			IncludeSwaggerUI: true,
		},
		EmailAuth: EmailAuth{
			Provider: "nodemailer",
			Templates: EmailTemplates{
				Verification:  true,
				PasswordReset: true,
			},
		},
		OAuthProviders: OAuthProviders{
			Providers:    []string{},
			CallbackURLs: map[string]string{},
		},
		PaymentIntegration: PaymentIntegration{
			Provider: "stripe",
			Features: []string{},
		},
	}
}

// Clone 深拷贝
func (f ProjectFeatures) Clone() ProjectFeatures {
	out := f
	out.OAuthProviders.Providers = append([]string{}, f.OAuthProviders.Providers...)
	out.OAuthProviders.CallbackURLs = make(map[string]string, len(f.OAuthProviders.CallbackURLs))
	for k, v := range f.OAuthProviders.CallbackURLs {
		out.OAuthProviders.CallbackURLs[k] = v
	}
	out.PaymentIntegration.Features = append([]string{}, f.PaymentIntegration.Features...)
	return out
}
