// Package config loads the shop settings from the environment, an optional
// .env file and an optional config.yaml.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"restrobilling/services"
)

type Config struct {
	App     AppConfig
	Shop    services.ShopProfile
	Billing BillingConfig
}

type AppConfig struct {
	Name     string
	Env      string
	LogLevel string
}

type BillingConfig struct {
	GSTRate         float64
	Cashiers        []string
	HomeDeliveryFee float64
	SessionTTL      time.Duration
	SweepSchedule   string
}

// Settings converts the billing section into the defaults for new billing sessions.
func (c *Config) Settings() services.SessionSettings {
	return services.SessionSettings{
		GSTRate:  c.Billing.GSTRate,
		Cashiers: c.Billing.Cashiers,
		Shop:     c.Shop,
	}
}

// Load reads configuration into a fresh viper instance. Missing files are not
// an error; environment variables always win.
func Load(paths ...string) *Config {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	if err := v.MergeInConfig(); err != nil {
		zap.L().Debug("no .env file, using environment", zap.Error(err))
	}
	for _, p := range paths {
		v.SetConfigFile(p)
		if err := v.MergeInConfig(); err != nil {
			zap.L().Warn("config file not loaded", zap.String("path", p), zap.Error(err))
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	shop := services.DefaultShopProfile()

	v.SetDefault("APP_NAME", "restrobilling")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SHOP_NAME", shop.Name)
	v.SetDefault("SHOP_ADDRESS", shop.Address)
	v.SetDefault("SHOP_PHONE", shop.Phone)
	v.SetDefault("SHOP_GSTIN", shop.GSTIN)
	v.SetDefault("SHOP_FSSAI_NO", shop.FSSAINo)
	v.SetDefault("SHOP_EMAIL", shop.Email)
	v.SetDefault("SHOP_STATE", shop.State)
	v.SetDefault("SHOP_STATE_CODE", shop.StateCode)
	v.SetDefault("SHOP_PAN", shop.PAN)
	v.SetDefault("SHOP_BUYER_STATE", shop.BuyerState)
	v.SetDefault("SHOP_BUYER_CODE", shop.BuyerCode)
	v.SetDefault("SHOP_DECLARATION", shop.Declaration)

	v.SetDefault("BILLING_GST_RATE", services.DefaultGSTRate)
	v.SetDefault("BILLING_CASHIERS", strings.Join(services.DefaultCashiers, ","))
	v.SetDefault("BILLING_HOME_DELIVERY_FEE", services.HomeDeliveryFee)
	v.SetDefault("BILLING_SESSION_TTL", "12h")
	v.SetDefault("BILLING_SWEEP_SCHEDULE", "*/15 * * * *")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Shop: services.ShopProfile{
			Name:        v.GetString("SHOP_NAME"),
			Address:     v.GetString("SHOP_ADDRESS"),
			Phone:       v.GetString("SHOP_PHONE"),
			GSTIN:       v.GetString("SHOP_GSTIN"),
			FSSAINo:     v.GetString("SHOP_FSSAI_NO"),
			Email:       v.GetString("SHOP_EMAIL"),
			State:       v.GetString("SHOP_STATE"),
			StateCode:   v.GetString("SHOP_STATE_CODE"),
			PAN:         v.GetString("SHOP_PAN"),
			BuyerState:  v.GetString("SHOP_BUYER_STATE"),
			BuyerCode:   v.GetString("SHOP_BUYER_CODE"),
			Declaration: v.GetString("SHOP_DECLARATION"),
		},
		Billing: BillingConfig{
			GSTRate:         v.GetFloat64("BILLING_GST_RATE"),
			Cashiers:        splitList(v.GetString("BILLING_CASHIERS")),
			HomeDeliveryFee: v.GetFloat64("BILLING_HOME_DELIVERY_FEE"),
			SessionTTL:      v.GetDuration("BILLING_SESSION_TTL"),
			SweepSchedule:   v.GetString("BILLING_SWEEP_SCHEDULE"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
