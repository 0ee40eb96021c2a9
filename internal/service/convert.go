package service

import (
	"Gazette/internal/api/dto"
	"Gazette/internal/model"
	"errors"
	"time"

	"github.com/jinzhu/copier"
)

// TimeLayout 对外输出的时间格式（毫秒精度）
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: time.Time{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				t, ok := src.(time.Time)
				if !ok {
					return nil, errors.New("src type not matching")
				}
				return t.Format(TimeLayout), nil
			},
		},
	},
}

func toCategoryDTO(category *model.Category) (*dto.CategoryDTO, error) {
	if category == nil {
		return nil, nil
	}
	out := &dto.CategoryDTO{}
	if err := copier.CopyWithOption(out, category, copyOption); err != nil {
		return nil, err
	}
	return out, nil
}
