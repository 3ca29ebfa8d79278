package main

import (
	"fmt"
	"strings"

	"noticeboard/backend/internal/feed"
	"noticeboard/backend/internal/triage"
)

func printFeed(views []feed.PostView) {
	if len(views) == 0 {
		fmt.Println("The board is empty.")
		return
	}
	for i, v := range views {
		fmt.Printf("\n%d. [%s] %s · %s\n", i+1, v.Initials, v.Author, v.Age)
		fmt.Printf("   %s\n", v.Content)
		if v.Poll != nil {
			fmt.Printf("   %s\n", v.Poll.Question)
			for j, o := range v.Poll.Options {
				mark := " "
				if o.Selected {
					mark = "x"
				}
				if v.Poll.ShowResults {
					fmt.Printf("   [%s] %d) %-24s %3d%% %s\n", mark, j+1, o.Text, o.Percentage, strings.Repeat("#", o.Percentage/5))
				} else {
					fmt.Printf("   [%s] %d) %s\n", mark, j+1, o.Text)
				}
			}
			fmt.Printf("   %s\n", v.Poll.VotesLabel)
		}
		heart := "♡"
		if v.Liked {
			heart = "♥"
		}
		fmt.Printf("   %s %d   replies %d\n", heart, v.Likes, v.Replies)
	}
}

func printTriage(v triage.View) {
	fmt.Printf("Total %d | New %d | Reviewed %d | Resolved %d\n",
		v.Summary.Total, v.Summary.New, v.Summary.Reviewed, v.Summary.Resolved)
	for _, it := range v.Items {
		fmt.Printf("\n#%s  %s · %s · %s · %s\n", it.ShortID, it.Urgency, it.Category, it.Status, it.Created.Format("Jan 2 15:04"))
		fmt.Printf("   %s\n", it.Content)
		if it.Action != nil {
			fmt.Printf("   -> advance %s (%s)\n", it.ShortID, it.Action.Label)
		}
	}
}
