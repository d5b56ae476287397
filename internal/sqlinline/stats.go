package sqlinline

const QStatsSummary = `--sql fc19751b-45ec-4c59-93e7-4f0bd9b8f20f
select
  (select count(*) from users)                                            as total_users,
  (select count(*) from roadmaps)                                         as total_roadmaps,
  (select count(*) from blogs)                                            as total_blogs,
  (select count(*) from blog_comments)                                    as total_comments,
  (select count(*) from roadmaps where created_at >= now() - interval '24 hours') as roadmaps_last24;
`
