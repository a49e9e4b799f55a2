package models

import "fmt"

type SubtopicStatus string

const (
	SubtopicNotStarted SubtopicStatus = "not-started"
	SubtopicInProgress SubtopicStatus = "in-progress"
	SubtopicCurrent    SubtopicStatus = "current"
	SubtopicCompleted  SubtopicStatus = "completed"
	SubtopicUpcoming   SubtopicStatus = "upcoming"
)

func (s SubtopicStatus) Valid() bool {
	switch s {
	case SubtopicNotStarted, SubtopicInProgress, SubtopicCurrent, SubtopicCompleted, SubtopicUpcoming:
		return true
	}
	return false
}

type Subtopic struct {
	Name   string         `json:"name"`
	Status SubtopicStatus `json:"status"`
	Icon   string         `json:"icon,omitempty"`
}

type MainTopic struct {
	Name      string     `json:"name"`
	Subtopics []Subtopic `json:"subtopics"`
}

// LessonPlan is the ordered outline shown as a topic's learning path.
type LessonPlan struct {
	MainTopics      []MainTopic `json:"mainTopics"`
	CurrentTopic    string      `json:"currentTopic"`
	CompletedTopics []string    `json:"completedTopics"`
}

func DefaultLessonPlan() LessonPlan {
	return LessonPlan{
		MainTopics: []MainTopic{{
			Name: "Learning Path",
			Subtopics: []Subtopic{
				{Name: "Introduction", Status: SubtopicCurrent},
				{Name: "Basic Concepts", Status: SubtopicUpcoming},
				{Name: "Practice Exercises", Status: SubtopicUpcoming},
				{Name: "Advanced Topics", Status: SubtopicUpcoming},
				{Name: "Final Review", Status: SubtopicUpcoming},
			},
		}},
		CurrentTopic:    "Introduction",
		CompletedTopics: []string{},
	}
}

func (p LessonPlan) Validate() error {
	if len(p.MainTopics) == 0 {
		return fmt.Errorf("lesson plan needs at least one main topic")
	}
	for i, mt := range p.MainTopics {
		if mt.Name == "" {
			return fmt.Errorf("main topic %d: name is required", i)
		}
		if len(mt.Subtopics) == 0 {
			return fmt.Errorf("main topic %q: at least one subtopic is required", mt.Name)
		}
		for _, st := range mt.Subtopics {
			if st.Name == "" {
				return fmt.Errorf("main topic %q: subtopic name is required", mt.Name)
			}
			if !st.Status.Valid() {
				return fmt.Errorf("subtopic %q: invalid status %q", st.Name, st.Status)
			}
		}
	}
	return nil
}
