package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

func productRules() validator.RuleSet {
	return validator.NewRuleSet("create product",
		validator.Field("title").Required("Tên sản phẩm là bắt buộc").Length(2, 200, ""),
		validator.Field("price").Required("Giá là bắt buộc").Float(0, "Giá phải lớn hơn 0"),
		validator.Field("category").Required("Danh mục là bắt buộc"),
		validator.Field("images").Optional().Array(0, ""),
		validator.Field("images.*").String("Ảnh phải là đường dẫn"),
	)
}

func TestRuleSet_Check(t *testing.T) {
	t.Parallel()

	t.Run("valid request", func(t *testing.T) {
		out := productRules().Check(validator.MustDocument(`{"title": "Cơ Predator", "price": 1200000, "category": "co"}`))
		assert.True(t, out.Valid())
		assert.NoError(t, out.Err())
	})

	t.Run("missing required field yields exactly one error for it", func(t *testing.T) {
		out := productRules().Check(validator.MustDocument(`{"title": "Cơ Predator", "category": "co"}`))
		require.Len(t, out.Errors, 1)
		assert.Equal(t, "price", out.Errors[0].Field)
		assert.Equal(t, "Giá là bắt buộc", out.Errors[0].Message)
	})

	t.Run("first error follows declaration order", func(t *testing.T) {
		doc := validator.MustDocument(`{"title": "", "price": -1, "category": "co"}`)

		first, ok := productRules().Check(doc).First()
		require.True(t, ok)
		assert.Equal(t, "Tên sản phẩm là bắt buộc", first.Message)

		reordered := validator.NewRuleSet("reordered",
			validator.Field("price").Required("Giá là bắt buộc").Float(0, "Giá phải lớn hơn 0"),
			validator.Field("title").Required("Tên sản phẩm là bắt buộc"),
		)
		first, ok = reordered.Check(doc).First()
		require.True(t, ok)
		assert.Equal(t, "Giá phải lớn hơn 0", first.Message)
	})

	t.Run("validate returns validation errors", func(t *testing.T) {
		err := productRules().Validate(validator.MustDocument(`{}`))
		require.Error(t, err)
		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		assert.Equal(t, []string{"title", "price", "category"}, fields)
	})
}

func TestRuleSet_Partial(t *testing.T) {
	t.Parallel()

	create := productRules()
	update := create.Partial()

	t.Run("empty body is valid", func(t *testing.T) {
		assert.True(t, update.Check(validator.MustDocument(`{}`)).Valid())
	})

	t.Run("present fields are still checked", func(t *testing.T) {
		out := update.Check(validator.MustDocument(`{"price": 0}`))
		require.Len(t, out.Errors, 1)
		assert.Equal(t, "Giá phải lớn hơn 0", out.Errors[0].Message)
	})

	t.Run("create variant is unchanged", func(t *testing.T) {
		assert.False(t, create.Check(validator.MustDocument(`{}`)).Valid())
	})

	t.Run("always fields stay mandatory", func(t *testing.T) {
		set := validator.NewRuleSet("status",
			validator.Field("status").Always().Required("Trạng thái là bắt buộc"),
			validator.Field("note").String(""),
		).Partial()

		out := set.Check(validator.MustDocument(`{}`))
		require.Len(t, out.Errors, 1)
		assert.Equal(t, "status", out.Errors[0].Field)
	})
}

func TestRuleSet_Fields(t *testing.T) {
	t.Parallel()

	set := validator.NewRuleSet("order",
		validator.Field("products").Array(1, ""),
		validator.Field("products.*.count").Int(1, ""),
		validator.Field("address.city").Required(""),
		validator.Field("totalPrice").Float(0, ""),
	)

	assert.Equal(t, []string{"products", "address", "totalPrice"}, set.Fields())
}

func TestNewRuleSet_PanicsWithoutFields(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, validator.ErrEmptyRuleSet, func() {
		validator.NewRuleSet("empty")
	})
}
