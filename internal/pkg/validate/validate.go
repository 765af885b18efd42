package validate

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/qs3c/alloc_server/internal/model"
)

// TagISODate 日期字段的 binding 标签，格式 YYYY-MM-DD，空字符串视为通过
const TagISODate = "isodate"

func isoDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse(model.DateLayout, value)
	return err == nil
}

// Register 把自定义校验注册到 gin 的校验引擎
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation(TagISODate, isoDate)
}
