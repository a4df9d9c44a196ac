package webutil

import (
	"reflect"
	"strings"

	"go_tenant_kernel/internal/model"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	// JSONタグからフィールド名を取得する
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	Trans, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		panic(err)
	}

	// 分離方式は列挙値で受け付ける
	if err := Validator.RegisterValidation("isolation_mode", func(fl validator.FieldLevel) bool {
		_, err := model.ParseIsolationMode(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	Validator.RegisterTranslation("isolation_mode", Trans, func(ut ut.Translator) error {
		return ut.Add("isolation_mode", "{0} must be one of SharedDb, SchemaPerTenant, DedicatedDb", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("isolation_mode", fe.Field())
		return t
	})
}
