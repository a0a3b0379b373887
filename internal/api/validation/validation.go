package validation

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"stagetrack/internal/attendance"
)

var registerOnce sync.Once

// Register 向 gin 校验器注册自定义 binding 标签：
//
//	clock    HH:MM or HH:MM:SS
//	isodate  YYYY-MM-DD
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("clock", validateClock); err != nil {
			return
		}
		err = v.RegisterValidation("isodate", validateISODate)
	})
	return err
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := attendance.ParseClock(fl.Field().String())
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := attendance.ParseDate(fl.Field().String())
	return err == nil
}
