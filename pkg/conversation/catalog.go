package conversation

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"storebot/pkg/apperr"
	"storebot/pkg/metrics"
	"storebot/pkg/models"
)

const (
	flowCatalog = "catalog"

	stepGrade   = "grade"
	stepMajor   = "major"
	stepProduct = "product"

	keyAlmas = "almas"
	keyGrade = "grade"
	keyMajor = "major"

	// comma separated ids of the products on the current keyboard
	keyListed = "listed"
)

var gradeLabels = map[models.Grade]string{
	models.Grade5:  "پایه پنجم",
	models.Grade6:  "پایه ششم",
	models.Grade7:  "پایه هفتم",
	models.Grade8:  "پایه هشتم",
	models.Grade9:  "پایه نهم",
	models.Grade10: "پایه دهم",
	models.Grade11: "پایه یازدهم",
	models.Grade12: "پایه دوازدهم",
}

var majorLabels = map[models.Major]string{
	models.MajorMath:    "ریاضی",
	models.MajorScience: "تجربی",
	models.MajorLecture: "انسانی",
	models.MajorGeneral: "عمومی",
}

func parseGrade(text string) (models.Grade, bool) {
	for g, label := range gradeLabels {
		if label == text {
			return g, true
		}
	}
	return 0, false
}

func parseMajor(text string) (models.Major, bool) {
	for m, label := range majorLabels {
		if label == text {
			return m, true
		}
	}
	return "", false
}

func gradeKeyboard(almas bool) [][]string {
	if almas {
		return [][]string{
			{gradeLabels[models.Grade12]},
			{gradeLabels[models.Grade11]},
			{gradeLabels[models.Grade10]},
			{btnBackToMenu},
		}
	}
	var rows [][]string
	for i := 0; i < len(models.Grades); i += 2 {
		row := []string{gradeLabels[models.Grades[i]]}
		if i+1 < len(models.Grades) {
			row = append(row, gradeLabels[models.Grades[i+1]])
		}
		rows = append(rows, row)
	}
	return append(rows, []string{btnBackToMenu})
}

func majorKeyboard() [][]string {
	return [][]string{
		{majorLabels[models.MajorMath], majorLabels[models.MajorScience]},
		{majorLabels[models.MajorLecture], majorLabels[models.MajorGeneral]},
		{btnBackToMenu},
	}
}

// startCatalog opens grade selection. The Almas entry limits it to the high school grades.
func (e *Engine) startCatalog(_ context.Context, t *turn, almas bool) error {
	t.s.Start(flowCatalog, stepGrade)
	metrics.Flow(flowCatalog, metrics.OutcomeStarted)
	if almas {
		t.s.Set(keyAlmas, "1")
		t.reply(Reply{Text: msgAlmasDescription, Keyboard: gradeKeyboard(true)})
		return nil
	}
	t.reply(Reply{Text: msgGradeSelection, Keyboard: gradeKeyboard(false)})
	return nil
}

func (e *Engine) catalogStep(ctx context.Context, t *turn) error {
	almas := t.s.Get(keyAlmas, "") != ""

	switch t.s.Step {
	case stepGrade:
		g, ok := parseGrade(t.in.Text)
		if !ok || (almas && !g.HighSchool()) {
			t.reply(Reply{Text: msgInvalidInput, Keyboard: gradeKeyboard(almas)})
			return nil
		}
		t.s.Set(keyGrade, strconv.Itoa(int(g)))
		if g.HighSchool() {
			t.s.Step = stepMajor
			t.reply(Reply{Text: msgMajorSelection, Keyboard: majorKeyboard()})
			return nil
		}
		return e.listProducts(ctx, t, g, nil)

	case stepMajor:
		m, ok := parseMajor(t.in.Text)
		if !ok {
			t.reply(Reply{Text: msgInvalidInput, Keyboard: majorKeyboard()})
			return nil
		}
		t.s.Set(keyMajor, string(m))
		return e.listProducts(ctx, t, e.sessionGrade(t), &m)

	case stepProduct:
		return e.showProduct(ctx, t)
	}
	return nil
}

func (e *Engine) sessionGrade(t *turn) models.Grade {
	g, _ := strconv.Atoi(t.s.Get(keyGrade, ""))
	return models.Grade(g)
}

func (e *Engine) listProducts(ctx context.Context, t *turn, g models.Grade, major *models.Major) error {
	products, err := e.svc.Catalog().Products(ctx, g, major)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		t.s.Step = stepGrade
		t.reply(Reply{Text: msgNoProducts, Keyboard: gradeKeyboard(t.s.Get(keyAlmas, "") != "")})
		return nil
	}

	names := make([]string, 0, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
		ids = append(ids, strconv.FormatInt(p.ID, 10))
	}
	t.s.Set(keyListed, strings.Join(ids, ","))
	t.s.Step = stepProduct
	t.reply(Reply{Text: msgProductSelection, Keyboard: column(names, true)})
	return nil
}

// showProduct answers a product name with its details and an inline buy
// button. Only products from the list last shown are accepted. The flow stays
// on the product list.
func (e *Engine) showProduct(ctx context.Context, t *turn) error {
	p, err := e.svc.Catalog().ProductByName(ctx, t.in.Text)
	if apperr.Is(err, apperr.KindNotFound) || (err == nil && !listed(t, p.ID)) {
		t.send(msgProductNotFound)
		return nil
	}
	if err != nil {
		return err
	}

	t.reply(Reply{
		Text: fmt.Sprintf(msgProductDetails, p.Description, formatPrice(p.Price)),
		Buttons: [][]Button{
			{{Text: btnBuy, Data: fmt.Sprintf("%s%d", cbBuy, p.ID)}},
			{{Text: btnBackToMenu, Data: cbBackToMenu}},
		},
	})
	return nil
}

func listed(t *turn, id int64) bool {
	shown := t.s.Get(keyListed, "")
	if shown == "" {
		return false
	}
	return slices.Contains(strings.Split(shown, ","), strconv.FormatInt(id, 10))
}
