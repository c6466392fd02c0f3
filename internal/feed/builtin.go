package feed

import "context"

// Builtin - встроенный список записей
type Builtin struct{}

// Filenames возвращает копию встроенного списка
func (Builtin) Filenames(context.Context) ([]string, error) {
	result := make([]string, len(builtinFilenames))
	copy(result, builtinFilenames)
	return result, nil
}

var builtinFilenames = []string{
	"025Re1.mp3", "026Re1.mp3", "027Re1.mp3", "028Re1.mp3",
	"1-11Re1.mp3", "1-13Re1.mp3", "1-14Re1.mp3", "1-15Re1.mp3",
	"1-19Re1.mp3", "1-2Re1.mp3", "1-4Re1.mp3", "1-6Re1.mp3",
	"1-7Re1.mp3", "1-8Re1.mp3", "1-9Re1.mp3", "10-14Re1.mp3",
	"10-18Re1.mp3", "10-19Re1.mp3", "100-103Re1.mp3", "100-105Re1.mp3",
	"101-102Re1.mp3", "101-endRe1.mp3", "102-105Re1.mp3", "102-107Re1.mp3",
	"103-109Re1.mp3", "104-109Re1.mp3", "104-111Re1.mp3", "104Re1.mp3",
	"105-endRe1.mp3", "106-107Re1.mp3", "106-109Re1.mp3", "106-114Re1.mp3",
	"108-111Re1.mp3", "108-112Re1.mp3", "108-116Re1.mp3", "109-114Re1.mp3",
	"11-15Re1.mp3", "11-16Re1.mp3", "111-115Re1.mp3", "111-119Re1.mp3",
	"113-118Re1.mp3", "114-118Re1.mp3", "114-122Re1.mp3", "115-121Re1.mp3",
	"116-121Re1.mp3", "116-endRe1.mp3", "117-endRe1.mp3", "118-123Re1.mp3",
	"12-14Re1.mp3", "12-15Re1.mp3", "12-18Re1.mp3", "120-endRe1.mp3",
	"121-125Re1.mp3", "122-125Re1.mp3", "122-126Re1.mp3", "123-127Re1.mp3",
	"125-130Re1.mp3", "126-129Re1.mp3", "127-132Re1.mp3", "128-130Re1.mp3",
	"13-17Re1.mp3", "13-21Re1.mp3", "130-136Re1.mp3", "131-135Re1.mp3",
	"131-136Re1.mp3", "132-137Re1.mp3", "135-140Re1.mp3", "135-141Re1.mp3",
	"137-144Re1.mp3", "138-142Re1.mp3", "138-144Re1.mp3", "138-147Re1.mp3",
	"14-18Re1.mp3", "14-20Re1.mp3", "14-24Re1.mp3", "14-25Re1.mp3",
	"141-144Re1.mp3", "144-148Re1.mp3", "145-148Re1.mp3", "145-149Re1.mp3",
	"145-154Re1.mp3", "148-154Re1.mp3", "149-152Re1.mp3", "149-153Re1.mp3",
	"15-18Re1.mp3", "15-19Re1.mp3", "15-21Re1.mp3", "150-153Re1.mp3",
	"152-154Re1.mp3", "154-156Re1.mp3", "154-159Re1.mp3", "155-158Re1.mp3",
	"155-159Re1.mp3", "155-160Re1.mp3", "156-162Re1.mp3", "158-165Re1.mp3",
	"16-19Re1.mp3", "16-20Re1.mp3", "16-21Re1.mp3", "16-25Re1.mp3",
	"160-165Re1.mp3", "160-endRe1.mp3", "161-167Re1.mp3", "163-170Re1.mp3",
	"165-167Re1.mp3", "166-171Re1.mp3", "166-173Re1.mp3", "168-174Re1.mp3",
	"17-22Re1.mp3", "171-179Re1.mp3", "172-endRe1.mp3", "174-177Re1.mp3",
	"175-178Re1.mp3", "177-178Re1.mp3", "178-183Re1.mp3", "179-185Re1.mp3",
	"18-24Re1.mp3", "18-27Re1.mp3", "180-184Re1.mp3", "185-187Re1.mp3",
	"186-189Re1.mp3", "187-189Re1.mp3", "189-196Re1.mp3", "19-22Re1.mp3",
	"19-25Re1.mp3", "19-27Re1.mp3", "19-29Re1.mp3", "190-200Re1.mp3",
	"196-197Re1.mp3", "197Re1.mp3", "198-205Re1.mp3", "19Re1.mp3",
	"1Re1.mp3", "2-3Re1.mp3", "2-8Re1.mp3", "20-22Re1.mp3",
	"20-23Re1.mp3", "20-25Re1.mp3", "20-27Re1.mp3", "20-31Re1.mp3",
	"203-209Re1.mp3", "208-211Re1.mp3", "21-27Re1.mp3", "211-213Re1.mp3",
	"214-218Re1.mp3", "21Re1.mp3", "22-23Re1.mp3", "22-25Re1.mp3",
	"22-27Re1.mp3", "22-31Re1.mp3", "22-36Re1.mp3", "226-228Re1.mp3",
	"228-232Re1.mp3", "23-29Re1.mp3", "23-31Re1.mp3", "236-245Re1.mp3",
	"24-25Re1.mp3", "246-247Re1.mp3", "248-249Re1.mp3", "25-31Re1.mp3",
	"25-33Re1.mp3", "250-253Re1.mp3", "253-255Re1.mp3", "255-257Re1.mp3",
	"258-259Re1.mp3", "26-27Re1.mp3", "26-29Re1.mp3", "26-31Re1.mp3",
	"26-40Re1.mp3", "26-44Re1.mp3", "26-45Re1.mp3", "260-261Re1.mp3",
	"261-264Re1.mp3", "265-267Re1.mp3", "267-271Re1.mp3", "272-274Re1.mp3",
	"274-281Re1.mp3", "28-30Re1.mp3", "28-34Re1.mp3", "280-282Re1.mp3",
	"29-35Re1.mp3", "29-46Re1.mp3", "2Re1.mp3", "3-6Re1.mp3",
	"30-33Re1.mp3", "30-34Re1.mp3", "30-35Re1.mp3", "30-44Re1.mp3",
	"31-34Re1.mp3", "32-36Re1.mp3", "32-37Re1.mp3", "32-39Re1.mp3",
	"33-36Re1.mp3", "33-37Re1.mp3", "34-37Re1.mp3", "34-39Re1.mp3",
	"35-40Re1.mp3", "35-43Re1.mp3", "36-37Re1.mp3", "36-44Re1.mp3",
	"36-45Re1.mp3", "37-39Re1.mp3", "37-39Re1_2.mp3", "37-50Re1.mp3",
	"37-endRe1.mp3", "38-40Re1.mp3", "38-40Re1_2.mp3", "38-44Re1.mp3",
	"39-43Re1.mp3", "4-5Re1.mp3", "4-6Re1.mp3", "40-41Re1.mp3",
	"40-42Re1.mp3", "40-43Re1.mp3", "40-46Re1.mp3", "40-48Re1.mp3",
	"41-42Re1.mp3", "41-43Re1.mp3", "41-46Re1.mp3", "41-54Re1.mp3",
	"43-45Re1.mp3", "43-55Re1.mp3", "43-endRe1.mp3", "44-47Re1.mp3",
	"44-48Re1.mp3", "45-49Re1.mp3", "45-50Re1.mp3", "45-58Re1.mp3",
	"45-64Re1.mp3", "46-47Re1.mp3", "46-55Re1.mp3", "47-53Re1.mp3",
	"5-10Re1.mp3", "5-11Re1.mp3", "5-12Re1.mp3", "58-63Re1.mp3",
	"59-62Re1.mp3", "59-63Re1.mp3", "59-64Re1.mp3", "59-70Re1.mp3",
	"60-62Re1.mp3", "60-64Re1.mp3", "63-70Re1.mp3", "63-77Re1.mp3",
	"64-68Re1.mp3", "64-73Re1.mp3", "65-70Re1.mp3", "65-72Re1.mp3",
	"65-73Re1.mp3", "65-79Re1.mp3", "67-69Re1.mp3", "69-72Re1.mp3",
	"69-73Re1.mp3", "7-15Re1.mp3", "70-72Re1.mp3", "70-74Re1.mp3",
	"71-77Re1.mp3", "71-78Re1.mp3", "73-75Re1.mp3", "73-76Re1.mp3",
	"out1.mp3", "out2.mp3",
}
