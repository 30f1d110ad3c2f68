package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/consult_scheduler/internal/availability"
	"github.com/Freeeeeet/consult_scheduler/internal/editor"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
	"github.com/Freeeeeet/consult_scheduler/internal/render"
)

const pixelsPerHour = 20

func main() {
	output := flag.String("o", "availability.png", "output file")
	fullDay := flag.Bool("full-day", false, "draw the whole 24h grid")
	flag.Parse()

	// Тестовое расписание консультанта
	doc := &model.WeeklyAvailabilityDocument{
		ConsultantID: 1,
		Blocks: []model.PersistedBlock{
			{Day: "Mon", Start: 9, End: 12},
			{Day: "Mon", Start: 14, End: 17},
			{Day: "Wed", Start: 10, End: 11.5},
			{Day: "Fri", Start: 13, End: 18},
		},
		UpdatedAt: time.Now().UTC(),
	}

	ed := editor.New(pixelsPerHour)
	if err := ed.FinishLoad(ed.BeginLoad(), doc); err != nil {
		fmt.Printf("Ошибка загрузки расписания: %v\n", err)
		os.Exit(1)
	}

	// Незавершённый жест создания блока: четверг 15:00-16:30
	if err := ed.PointerDown(editor.PointerDown{Target: editor.TargetGrid, Day: model.Thursday, Offset: 15 * pixelsPerHour}); err != nil {
		fmt.Printf("Ошибка жеста: %v\n", err)
		os.Exit(1)
	}
	if err := ed.PointerMove(16.5 * pixelsPerHour); err != nil {
		fmt.Printf("Ошибка жеста: %v\n", err)
		os.Exit(1)
	}

	var draft *model.AvailabilityBlock
	if d, ok := ed.Draft(); ok {
		draft = &d
	}

	imageData, err := render.AvailabilityImage(ed.Blocks(), draft, render.Options{Title: "Weekly availability", FullDay: *fullDay})
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*output, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", *output)
	fmt.Printf("📊 Блоков: %d\n", len(ed.Blocks()))
	for _, b := range availability.SortBlocks(ed.Blocks()) {
		day, _ := availability.DayName(b.Day)
		fmt.Printf("  %s %s\n", day, availability.FormatRange(b.Start, b.End))
	}
}
