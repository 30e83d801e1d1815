package validator

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

// Init 向 gin 的默认校验器注册自定义规则
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validate = v
		_ = v.RegisterValidation("base_units", validateBaseUnits)
	}
}

// validateBaseUnits 校验最小单位金额: 非负整数的十进制字符串 (例如 wei)
func validateBaseUnits(fl validator.FieldLevel) bool {
	return IsBaseUnits(fl.Field().String())
}

// IsBaseUnits 判断字符串是否为非负整数金额
func IsBaseUnits(s string) bool {
	if s == "" || strings.ContainsAny(s, ".eE+") {
		return false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// GetErrorMsg translates validation errors into user-friendly messages
func GetErrorMsg(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var errMsgs []string
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			param := e.Param()

			switch tag {
			case "required":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不能为空", field))
			case "eth_addr":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不是合法的以太坊地址", field))
			case "base_units":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是非负整数 (最小单位)", field))
			case "max":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 长度不能超过 %s", field, param))
			case "oneof":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是 [%s] 之一", field, param))
			default:
				errMsgs = append(errMsgs, fmt.Sprintf("%s 校验失败 (%s)", field, tag))
			}
		}
		return strings.Join(errMsgs, "; ")
	}
	return "请求参数错误"
}
